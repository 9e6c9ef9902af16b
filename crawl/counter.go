package crawl

import (
	"context"
	"sync/atomic"

	"github.com/fwojciec/forumcrawl"
)

var _ forumcrawl.Counter = (*Counter)(nil)

// Counter is an in-memory, atomic post counter.
type Counter struct {
	n atomic.Int64
}

// Increment adds one and returns the new value.
func (c *Counter) Increment(_ context.Context) (int64, error) {
	return c.n.Add(1), nil
}

// Value returns the current value.
func (c *Counter) Value(_ context.Context) (int64, error) {
	return c.n.Load(), nil
}
