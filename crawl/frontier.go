package crawl

import (
	"context"
	"fmt"

	"github.com/fwojciec/forumcrawl"
)

// Compile-time interface verification.
var _ forumcrawl.Frontier = (*Frontier)(nil)

// Frontier is an in-memory, unbounded FIFO of list pages.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	q *queue[forumcrawl.FrontierItem]
}

// NewFrontier creates an empty Frontier.
func NewFrontier() *Frontier {
	return &Frontier{q: newQueue[forumcrawl.FrontierItem]()}
}

// Enqueue appends an item to the tail of the queue.
func (f *Frontier) Enqueue(ctx context.Context, item forumcrawl.FrontierItem) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("enqueue canceled: %w", err)
	}
	f.q.push(item)
	return nil
}

// Dequeue removes the head item, blocking while the frontier is empty.
func (f *Frontier) Dequeue(ctx context.Context) (forumcrawl.FrontierItem, error) {
	item, _, err := f.q.pop(ctx)
	if err != nil {
		return forumcrawl.FrontierItem{}, fmt.Errorf("dequeue canceled: %w", err)
	}
	return item, nil
}

// Len returns the number of queued items.
func (f *Frontier) Len(_ context.Context) (int, error) {
	return f.q.len(), nil
}
