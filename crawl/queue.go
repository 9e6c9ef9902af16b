package crawl

import (
	"context"
	"sync"
)

// queue is an unbounded FIFO safe for concurrent producers and consumers.
// Consumers block in pop until an item arrives, the queue is closed and
// drained, or the context ends.
type queue[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool

	// notify holds at most one wake-up token. A consumer that takes an item
	// and leaves more behind passes the token on.
	notify chan struct{}
	done   chan struct{}
}

func newQueue[T any]() *queue[T] {
	return &queue[T]{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// push appends an item. It reports false if the queue is closed.
func (q *queue[T]) push(item T) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, item)
	q.mu.Unlock()

	q.wake()
	return true
}

// pop removes the head item. The bool result is false once the queue is
// closed and empty.
func (q *queue[T]) pop(ctx context.Context) (T, bool, error) {
	for {
		if item, ok := q.tryPop(); ok {
			return item, true, nil
		}

		q.mu.Lock()
		closed := q.closed && len(q.items) == 0
		q.mu.Unlock()
		if closed {
			var zero T
			return zero, false, nil
		}

		select {
		case <-ctx.Done():
			var zero T
			return zero, false, ctx.Err()
		case <-q.notify:
		case <-q.done:
		}
	}
}

// tryPop removes the head item without blocking.
func (q *queue[T]) tryPop() (T, bool) {
	q.mu.Lock()
	if len(q.items) == 0 {
		q.mu.Unlock()
		var zero T
		return zero, false
	}
	item := q.items[0]
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	more := len(q.items) > 0
	q.mu.Unlock()

	if more {
		q.wake()
	}
	return item, true
}

func (q *queue[T]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// close stops accepting items. Queued items can still be popped.
func (q *queue[T]) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}

func (q *queue[T]) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}
