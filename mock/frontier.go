package mock

import (
	"context"

	"github.com/fwojciec/forumcrawl"
)

var (
	_ forumcrawl.Frontier       = (*Frontier)(nil)
	_ forumcrawl.RequestLimiter = (*RequestLimiter)(nil)
	_ forumcrawl.Counter        = (*Counter)(nil)
)

// Frontier is a mock implementation of forumcrawl.Frontier.
type Frontier struct {
	EnqueueFn func(ctx context.Context, item forumcrawl.FrontierItem) error
	DequeueFn func(ctx context.Context) (forumcrawl.FrontierItem, error)
	LenFn     func(ctx context.Context) (int, error)
}

func (f *Frontier) Enqueue(ctx context.Context, item forumcrawl.FrontierItem) error {
	return f.EnqueueFn(ctx, item)
}

func (f *Frontier) Dequeue(ctx context.Context) (forumcrawl.FrontierItem, error) {
	return f.DequeueFn(ctx)
}

func (f *Frontier) Len(ctx context.Context) (int, error) {
	return f.LenFn(ctx)
}

// RequestLimiter is a mock implementation of forumcrawl.RequestLimiter.
type RequestLimiter struct {
	AcquireFn func(ctx context.Context) error
}

func (l *RequestLimiter) Acquire(ctx context.Context) error {
	return l.AcquireFn(ctx)
}

// Counter is a mock implementation of forumcrawl.Counter.
type Counter struct {
	IncrementFn func(ctx context.Context) (int64, error)
	ValueFn     func(ctx context.Context) (int64, error)
}

func (c *Counter) Increment(ctx context.Context) (int64, error) {
	return c.IncrementFn(ctx)
}

func (c *Counter) Value(ctx context.Context) (int64, error) {
	return c.ValueFn(ctx)
}
