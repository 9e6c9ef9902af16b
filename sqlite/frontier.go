package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/forumcrawl"
)

// DefaultPollInterval is how often an idle Dequeue checks for new items.
const DefaultPollInterval = 50 * time.Millisecond

// Compile-time interface verification.
var _ forumcrawl.Frontier = (*Frontier)(nil)

// Frontier is a FIFO of frontier items for one run, stored in the state file.
// Any number of processes can enqueue and dequeue concurrently; each item is
// handed to exactly one caller.
type Frontier struct {
	db    *DB
	runID string
	poll  time.Duration
}

// NewFrontier creates a Frontier for the given run.
func NewFrontier(db *DB, runID string) *Frontier {
	return &Frontier{db: db, runID: runID, poll: DefaultPollInterval}
}

// SetPollInterval changes how often an idle Dequeue polls.
func (f *Frontier) SetPollInterval(d time.Duration) {
	if d > 0 {
		f.poll = d
	}
}

// Enqueue appends an item to the tail of the queue.
func (f *Frontier) Enqueue(ctx context.Context, item forumcrawl.FrontierItem) error {
	_, err := f.db.ExecContext(ctx, `
		INSERT INTO frontier (run_id, url, terminate)
		VALUES (?, ?, ?)
	`, f.runID, item.URL, item.Terminate)
	if err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}
	return nil
}

// Dequeue removes the head item, polling while the queue is empty.
func (f *Frontier) Dequeue(ctx context.Context) (forumcrawl.FrontierItem, error) {
	for {
		item, ok, err := f.tryDequeue(ctx)
		if err != nil {
			return forumcrawl.FrontierItem{}, fmt.Errorf("dequeue: %w", err)
		}
		if ok {
			return item, nil
		}
		if err := sleep(ctx, f.poll); err != nil {
			return forumcrawl.FrontierItem{}, fmt.Errorf("dequeue canceled: %w", err)
		}
	}
}

func (f *Frontier) tryDequeue(ctx context.Context) (forumcrawl.FrontierItem, bool, error) {
	tx, err := f.db.BeginTx(ctx)
	if err != nil {
		return forumcrawl.FrontierItem{}, false, err
	}
	defer tx.Rollback()

	var (
		id   int64
		item forumcrawl.FrontierItem
	)
	err = tx.QueryRowContext(ctx, `
		SELECT id, url, terminate
		FROM frontier
		WHERE run_id = ?
		ORDER BY id
		LIMIT 1
	`, f.runID).Scan(&id, &item.URL, &item.Terminate)
	if errors.Is(err, sql.ErrNoRows) {
		return forumcrawl.FrontierItem{}, false, nil
	}
	if err != nil {
		return forumcrawl.FrontierItem{}, false, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM frontier WHERE id = ?`, id); err != nil {
		return forumcrawl.FrontierItem{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return forumcrawl.FrontierItem{}, false, err
	}
	return item, true, nil
}

// Len returns the number of queued items.
func (f *Frontier) Len(ctx context.Context) (int, error) {
	var n int
	err := f.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM frontier WHERE run_id = ?
	`, f.runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("frontier length: %w", err)
	}
	return n, nil
}
