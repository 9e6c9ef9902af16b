package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/forumcrawl"
	"github.com/fwojciec/forumcrawl/mock"
	"github.com/fwojciec/forumcrawl/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_SaveArtifact(t *testing.T) {
	t.Parallel()

	t.Run("records what the wrapped store wrote", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		runID := startRun(t, db)
		store := &mock.ArtifactStore{
			SaveArtifactFn: func(_ context.Context, id forumcrawl.WorkerIdentity, _ *forumcrawl.PostArtifact) (string, error) {
				return "/out/" + id.WorkerID + "_" + id.ThreadID + "_topic.json", nil
			},
		}
		ledger := sqlite.NewLedger(db, runID, store)
		ctx := context.Background()

		artifact := &forumcrawl.PostArtifact{
			Name:      "Topic",
			URL:       "https://forum.example/topic/",
			Responses: map[string]string{"t1": "body"},
		}
		path, err := ledger.SaveArtifact(ctx, forumcrawl.WorkerIdentity{WorkerID: "worker-1", ThreadID: "thread-2"}, artifact)
		require.NoError(t, err)
		assert.Equal(t, "/out/worker-1_thread-2_topic.json", path)

		records, err := ledger.FindArtifacts(ctx, forumcrawl.ArtifactFilter{RunID: &runID})
		require.NoError(t, err)
		require.Len(t, records, 1)
		r := records[0]
		assert.NotEmpty(t, r.ID)
		assert.Equal(t, runID, r.RunID)
		assert.Equal(t, path, r.Path)
		assert.Equal(t, "https://forum.example/topic/", r.URL)
		assert.Equal(t, "worker-1", r.WorkerID)
		assert.Equal(t, "thread-2", r.ThreadID)
		assert.Len(t, r.ContentHash, 16)
		assert.False(t, r.SavedAt.IsZero())
	})

	t.Run("identical artifacts share a content hash", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		runID := startRun(t, db)
		store := &mock.ArtifactStore{
			SaveArtifactFn: func(_ context.Context, id forumcrawl.WorkerIdentity, _ *forumcrawl.PostArtifact) (string, error) {
				return id.ThreadID, nil
			},
		}
		ledger := sqlite.NewLedger(db, runID, store)
		ctx := context.Background()
		artifact := &forumcrawl.PostArtifact{URL: "https://forum.example/t/", Responses: map[string]string{"a": "b"}}

		_, err := ledger.SaveArtifact(ctx, forumcrawl.WorkerIdentity{ThreadID: "thread-1"}, artifact)
		require.NoError(t, err)
		_, err = ledger.SaveArtifact(ctx, forumcrawl.WorkerIdentity{ThreadID: "thread-2"}, artifact)
		require.NoError(t, err)

		url := "https://forum.example/t/"
		records, err := ledger.FindArtifacts(ctx, forumcrawl.ArtifactFilter{URL: &url})
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, records[0].ContentHash, records[1].ContentHash)
	})

	t.Run("store failure is returned and nothing is recorded", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		runID := startRun(t, db)
		store := &mock.ArtifactStore{
			SaveArtifactFn: func(_ context.Context, _ forumcrawl.WorkerIdentity, _ *forumcrawl.PostArtifact) (string, error) {
				return "", errors.New("disk full")
			},
		}
		ledger := sqlite.NewLedger(db, runID, store)
		ctx := context.Background()

		_, err := ledger.SaveArtifact(ctx, forumcrawl.WorkerIdentity{}, &forumcrawl.PostArtifact{URL: "https://forum.example/t/"})
		require.Error(t, err)

		records, err := ledger.FindArtifacts(ctx, forumcrawl.ArtifactFilter{RunID: &runID})
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestLedger_FindArtifacts_paginates(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	runID := startRun(t, db)
	store := &mock.ArtifactStore{
		SaveArtifactFn: func(_ context.Context, _ forumcrawl.WorkerIdentity, a *forumcrawl.PostArtifact) (string, error) {
			return a.URL, nil
		},
	}
	ledger := sqlite.NewLedger(db, runID, store)
	ctx := context.Background()

	for _, u := range []string{"a", "b", "c", "d"} {
		_, err := ledger.SaveArtifact(ctx, forumcrawl.WorkerIdentity{}, &forumcrawl.PostArtifact{URL: u})
		require.NoError(t, err)
	}

	page, err := ledger.FindArtifacts(ctx, forumcrawl.ArtifactFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "b", page[0].URL)
	assert.Equal(t, "c", page[1].URL)

	rest, err := ledger.FindArtifacts(ctx, forumcrawl.ArtifactFilter{Offset: 3})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "d", rest[0].URL)
}
