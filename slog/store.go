package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/forumcrawl"
)

// Ensure LoggingArtifactStore implements forumcrawl.ArtifactStore.
var _ forumcrawl.ArtifactStore = (*LoggingArtifactStore)(nil)

// LoggingArtifactStore wraps an ArtifactStore with debug logging.
type LoggingArtifactStore struct {
	next   forumcrawl.ArtifactStore
	logger *slog.Logger
}

// NewLoggingArtifactStore creates a new LoggingArtifactStore.
func NewLoggingArtifactStore(next forumcrawl.ArtifactStore, logger *slog.Logger) *LoggingArtifactStore {
	return &LoggingArtifactStore{next: next, logger: logger}
}

// SaveArtifact delegates to the wrapped store and logs the write.
func (s *LoggingArtifactStore) SaveArtifact(ctx context.Context, id forumcrawl.WorkerIdentity, a *forumcrawl.PostArtifact) (path string, err error) {
	defer func(begin time.Time) {
		level := slog.LevelDebug
		if err != nil {
			level = slog.LevelError
		}
		s.logger.Log(ctx, level, "save artifact",
			"worker", id.WorkerID,
			"thread", id.ThreadID,
			"url", a.URL,
			"responses", len(a.Responses),
			"path", path,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveArtifact(ctx, id, a)
}
