package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fwojciec/forumcrawl"
)

// Compile-time interface verification.
var _ forumcrawl.Counter = (*Counter)(nil)

// Counter counts written posts for one run across all processes.
type Counter struct {
	db    *DB
	runID string
}

// NewCounter creates a Counter for the given run.
func NewCounter(db *DB, runID string) *Counter {
	return &Counter{db: db, runID: runID}
}

// Increment adds one and returns the new value.
func (c *Counter) Increment(ctx context.Context) (int64, error) {
	var n int64
	err := c.db.QueryRowContext(ctx, `
		INSERT INTO counters (run_id, value) VALUES (?, 1)
		ON CONFLICT(run_id) DO UPDATE SET value = value + 1
		RETURNING value
	`, c.runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("increment counter: %w", err)
	}
	return n, nil
}

// Value returns the current value.
func (c *Counter) Value(ctx context.Context) (int64, error) {
	var n int64
	err := c.db.QueryRowContext(ctx, `
		SELECT value FROM counters WHERE run_id = ?
	`, c.runID).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read counter: %w", err)
	}
	return n, nil
}
