package crawl

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// PostTask is one unit of work for a PostPool. The threadID names the pool
// goroutine running the task.
type PostTask func(ctx context.Context, threadID string)

// PostPool runs submitted tasks on a fixed set of goroutines.
// Submit never blocks: tasks wait in an unbounded queue until a goroutine
// is free.
type PostPool struct {
	tasks *queue[PostTask]
	g     errgroup.Group
}

// NewPostPool starts size goroutines named thread-1 .. thread-size.
// The goroutines stop early when ctx is canceled; queued tasks are then dropped.
func NewPostPool(ctx context.Context, size int) *PostPool {
	if size <= 0 {
		size = 1
	}
	p := &PostPool{tasks: newQueue[PostTask]()}
	for i := 1; i <= size; i++ {
		threadID := fmt.Sprintf("thread-%d", i)
		p.g.Go(func() error {
			for {
				task, ok, err := p.tasks.pop(ctx)
				if err != nil || !ok {
					return nil
				}
				task(ctx, threadID)
			}
		})
	}
	return p
}

// Submit queues a task. It reports false if the pool is closed.
func (p *PostPool) Submit(task PostTask) bool {
	return p.tasks.push(task)
}

// Pending returns the number of queued tasks not yet picked up.
func (p *PostPool) Pending() int {
	return p.tasks.len()
}

// Close stops accepting tasks and waits for every queued task to finish.
func (p *PostPool) Close() {
	p.tasks.close()
	_ = p.g.Wait()
}
