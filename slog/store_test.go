package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/forumcrawl"
	"github.com/fwojciec/forumcrawl/mock"
	fcslog "github.com/fwojciec/forumcrawl/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingArtifactStore_SaveArtifact(t *testing.T) {
	t.Parallel()

	id := forumcrawl.WorkerIdentity{WorkerID: "worker-1", ThreadID: "thread-2"}
	artifact := &forumcrawl.PostArtifact{
		URL:       "https://forum.example/topic/",
		Responses: map[string]string{"a": "1", "b": "2"},
	}

	t.Run("logs the write with identity and path", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.ArtifactStore{
			SaveArtifactFn: func(_ context.Context, _ forumcrawl.WorkerIdentity, _ *forumcrawl.PostArtifact) (string, error) {
				return "out/worker-1_thread-2_topic.json", nil
			},
		}

		path, err := fcslog.NewLoggingArtifactStore(inner, logger).SaveArtifact(context.Background(), id, artifact)

		require.NoError(t, err)
		assert.Equal(t, "out/worker-1_thread-2_topic.json", path)
		output := buf.String()
		assert.Contains(t, output, `msg="save artifact"`)
		assert.Contains(t, output, "worker=worker-1")
		assert.Contains(t, output, "thread=thread-2")
		assert.Contains(t, output, "responses=2")
		assert.Contains(t, output, "path=out/worker-1_thread-2_topic.json")
	})

	t.Run("logs failures at error level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ArtifactStore{
			SaveArtifactFn: func(_ context.Context, _ forumcrawl.WorkerIdentity, _ *forumcrawl.PostArtifact) (string, error) {
				return "", errors.New("disk full")
			},
		}

		_, err := fcslog.NewLoggingArtifactStore(inner, logger).SaveArtifact(context.Background(), id, artifact)

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=ERROR")
		assert.Contains(t, output, `err="disk full"`)
	})
}
