package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/forumcrawl"
)

var _ forumcrawl.RequestLimiter = (*IntervalLimiter)(nil)

// IntervalLimiter keeps at least a fixed interval between any two granted
// acquisitions, no matter which goroutine asks. Waiters are not queued:
// after sleeping they re-check under the lock, so under contention the
// order of grants is not FIFO.
type IntervalLimiter struct {
	mu       sync.Mutex
	last     time.Time
	interval time.Duration
}

// NewIntervalLimiter creates a limiter enforcing the given minimum gap.
// A zero or negative interval disables limiting.
func NewIntervalLimiter(interval time.Duration) *IntervalLimiter {
	return &IntervalLimiter{interval: interval}
}

// Acquire blocks until the interval has passed since the last grant, then
// records the current instant as the new last grant.
// Returns an error if the context is canceled before the wait completes.
func (l *IntervalLimiter) Acquire(ctx context.Context) error {
	if l.interval <= 0 {
		return nil
	}
	for {
		l.mu.Lock()
		now := time.Now()
		elapsed := now.Sub(l.last)
		if elapsed >= l.interval {
			l.last = now
			l.mu.Unlock()
			return nil
		}
		l.mu.Unlock()

		if err := sleep(ctx, l.interval-elapsed); err != nil {
			return err
		}
	}
}

// Interval returns the configured minimum gap.
func (l *IntervalLimiter) Interval() time.Duration {
	return l.interval
}

// sleep pauses for d or until the context ends.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
