package sqlite_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/forumcrawl"
	"github.com/fwojciec/forumcrawl/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontier(t *testing.T) {
	t.Parallel()

	t.Run("dequeues in FIFO order", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		f := sqlite.NewFrontier(db, startRun(t, db))
		ctx := context.Background()

		require.NoError(t, f.Enqueue(ctx, forumcrawl.PageItem("https://forum.example/page/1")))
		require.NoError(t, f.Enqueue(ctx, forumcrawl.PageItem("https://forum.example/page/2")))
		require.NoError(t, f.Enqueue(ctx, forumcrawl.TerminationSignal))

		n, err := f.Len(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		item, err := f.Dequeue(ctx)
		require.NoError(t, err)
		assert.Equal(t, forumcrawl.PageItem("https://forum.example/page/1"), item)

		item, err = f.Dequeue(ctx)
		require.NoError(t, err)
		assert.Equal(t, forumcrawl.PageItem("https://forum.example/page/2"), item)

		item, err = f.Dequeue(ctx)
		require.NoError(t, err)
		assert.Equal(t, forumcrawl.TerminationSignal, item)

		n, err = f.Len(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("runs do not see each other's items", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		a := sqlite.NewFrontier(db, startRun(t, db))
		b := sqlite.NewFrontier(db, startRun(t, db))
		ctx := context.Background()

		require.NoError(t, a.Enqueue(ctx, forumcrawl.PageItem("https://forum.example/a")))

		n, err := b.Len(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("Dequeue waits for an item", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		f := sqlite.NewFrontier(db, startRun(t, db))
		f.SetPollInterval(5 * time.Millisecond)
		ctx := context.Background()

		go func() {
			time.Sleep(30 * time.Millisecond)
			_ = f.Enqueue(ctx, forumcrawl.PageItem("https://forum.example/late"))
		}()

		item, err := f.Dequeue(ctx)
		require.NoError(t, err)
		assert.Equal(t, "https://forum.example/late", item.URL)
	})

	t.Run("Dequeue respects context cancellation", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		f := sqlite.NewFrontier(db, startRun(t, db))
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()

		_, err := f.Dequeue(ctx)

		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("hands every item to exactly one process", func(t *testing.T) {
		t.Parallel()

		a, b := setupFileDB(t)
		runID := startRun(t, a)
		fa := sqlite.NewFrontier(a, runID)
		fb := sqlite.NewFrontier(b, runID)
		fa.SetPollInterval(time.Millisecond)
		fb.SetPollInterval(time.Millisecond)
		ctx := context.Background()

		const items = 40
		for i := range items {
			require.NoError(t, fa.Enqueue(ctx, forumcrawl.PageItem(fmt.Sprintf("https://forum.example/%d", i))))
		}

		var (
			mu   sync.Mutex
			seen = make(map[string]int)
			wg   sync.WaitGroup
		)
		for _, f := range []*sqlite.Frontier{fa, fb, fa, fb} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range items / 4 {
					item, err := f.Dequeue(ctx)
					if err != nil {
						return
					}
					mu.Lock()
					seen[item.URL]++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Len(t, seen, items)
		for url, n := range seen {
			assert.Equal(t, 1, n, url)
		}
	})
}
