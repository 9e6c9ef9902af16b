package forumcrawl

import "context"

// FrontierItem is one entry of the crawl frontier: either a list page URL
// or the termination signal.
type FrontierItem struct {
	URL       string
	Terminate bool
}

// TerminationSignal marks the end of pagination. A worker that receives it
// enqueues exactly one TerminationSignal again before it stops, so every
// worker sharing the frontier eventually sees one.
var TerminationSignal = FrontierItem{Terminate: true}

// PageItem returns a frontier item for the list page at url.
func PageItem(url string) FrontierItem {
	return FrontierItem{URL: url}
}

// Frontier is a FIFO queue of list pages shared by all crawl workers.
// Page URLs are not deduplicated.
type Frontier interface {
	// Enqueue appends an item to the tail of the queue.
	Enqueue(ctx context.Context, item FrontierItem) error

	// Dequeue removes the item at the head of the queue, blocking while
	// the queue is empty. Returns an error if the context is canceled.
	Dequeue(ctx context.Context) (FrontierItem, error)

	// Len returns the number of queued items.
	Len(ctx context.Context) (int, error)
}

// RequestLimiter enforces a minimum gap between any two outbound requests
// issued anywhere in the crawl.
type RequestLimiter interface {
	// Acquire blocks until a request may be issued.
	// Returns an error if the context is canceled while waiting.
	Acquire(ctx context.Context) error
}

// Counter counts the post artifacts written by a crawl.
type Counter interface {
	// Increment adds one and returns the new value.
	Increment(ctx context.Context) (int64, error)

	// Value returns the current value.
	Value(ctx context.Context) (int64, error)
}
