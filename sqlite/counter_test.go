package sqlite_test

import (
	"context"
	"sync"
	"testing"

	"github.com/fwojciec/forumcrawl/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	t.Parallel()

	t.Run("starts at zero", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		c := sqlite.NewCounter(db, startRun(t, db))

		n, err := c.Value(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	})

	t.Run("Increment returns the new value", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		c := sqlite.NewCounter(db, startRun(t, db))
		ctx := context.Background()

		n, err := c.Increment(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = c.Increment(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("counts across processes", func(t *testing.T) {
		t.Parallel()

		a, b := setupFileDB(t)
		runID := startRun(t, a)
		ctx := context.Background()

		var wg sync.WaitGroup
		for _, c := range []*sqlite.Counter{sqlite.NewCounter(a, runID), sqlite.NewCounter(b, runID)} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 25 {
					_, _ = c.Increment(ctx)
				}
			}()
		}
		wg.Wait()

		n, err := sqlite.NewCounter(a, runID).Value(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(50), n)
	})
}
