package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/forumcrawl"
)

// Compile-time interface verification.
var _ forumcrawl.RequestLimiter = (*Limiter)(nil)

// Limiter keeps a minimum interval between acquisitions made by any process
// sharing the state file. The time of the last grant lives in the limiter
// table and is read and updated in one write transaction.
type Limiter struct {
	db       *DB
	runID    string
	interval time.Duration
}

// NewLimiter creates a Limiter for the given run.
// A zero or negative interval disables limiting.
func NewLimiter(db *DB, runID string, interval time.Duration) *Limiter {
	return &Limiter{db: db, runID: runID, interval: interval}
}

// Acquire blocks until the interval has passed since the last grant made by
// any process, then records the new grant.
func (l *Limiter) Acquire(ctx context.Context) error {
	if l.interval <= 0 {
		return nil
	}
	for {
		wait, err := l.tryAcquire(ctx)
		if err != nil {
			return fmt.Errorf("acquire: %w", err)
		}
		if wait <= 0 {
			return nil
		}
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// tryAcquire grants and returns zero, or returns how long to wait.
func (l *Limiter) tryAcquire(ctx context.Context) (time.Duration, error) {
	tx, err := l.db.BeginTx(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var last int64
	err = tx.QueryRowContext(ctx, `
		SELECT last_grant FROM limiter WHERE run_id = ?
	`, l.runID).Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	now := time.Now()
	elapsed := now.Sub(time.Unix(0, last))
	if last != 0 && elapsed < l.interval {
		return l.interval - elapsed, nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO limiter (run_id, last_grant) VALUES (?, ?)
		ON CONFLICT(run_id) DO UPDATE SET last_grant = excluded.last_grant
	`, l.runID, now.UnixNano()); err != nil {
		return 0, err
	}
	return 0, tx.Commit()
}
