package mock

import (
	"context"

	"github.com/fwojciec/forumcrawl"
)

var _ forumcrawl.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore is a mock implementation of forumcrawl.ArtifactStore.
type ArtifactStore struct {
	SaveArtifactFn func(ctx context.Context, id forumcrawl.WorkerIdentity, a *forumcrawl.PostArtifact) (string, error)
}

func (s *ArtifactStore) SaveArtifact(ctx context.Context, id forumcrawl.WorkerIdentity, a *forumcrawl.PostArtifact) (string, error) {
	return s.SaveArtifactFn(ctx, id, a)
}

var _ forumcrawl.ArtifactLedger = (*ArtifactLedger)(nil)

// ArtifactLedger is a mock implementation of forumcrawl.ArtifactLedger.
type ArtifactLedger struct {
	FindArtifactsFn func(ctx context.Context, filter forumcrawl.ArtifactFilter) ([]*forumcrawl.ArtifactRecord, error)
}

func (l *ArtifactLedger) FindArtifacts(ctx context.Context, filter forumcrawl.ArtifactFilter) ([]*forumcrawl.ArtifactRecord, error) {
	return l.FindArtifactsFn(ctx, filter)
}
