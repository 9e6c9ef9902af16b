// Package crawl provides forum crawling orchestration.
// It coordinates the frontier of list pages, the shared request limiter,
// the workers that paginate, and the post pools that write artifacts.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/forumcrawl"
	"golang.org/x/sync/errgroup"
)

// Crawler orchestrates a crawl: it starts the workers, seeds the frontier,
// and waits for every worker to stop.
type Crawler struct {
	Frontier  forumcrawl.Frontier
	Fetcher   forumcrawl.Fetcher
	Limiter   forumcrawl.RequestLimiter
	Markup    forumcrawl.Markup
	Store     forumcrawl.ArtifactStore
	Counter   forumcrawl.Counter
	Converter forumcrawl.Converter
	Format    ContentFormat
	Workers   int
	Threads   int
	Logger    *slog.Logger

	// Progress, if set, receives events from every worker and post task.
	// It is called concurrently.
	Progress ProgressFunc

	// Shared marks a frontier that other processes also consume. The
	// residual termination signal is left in place for them.
	Shared bool
}

// Result holds the outcome of a crawl.
type Result struct {
	Completed     int64
	FailedWorkers int
	Duration      time.Duration
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	Worker    string
	URL       string
	Posts     int
	Completed int64
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressPageFetched ProgressType = iota
	ProgressPostSaved
	ProgressPostSkipped
	ProgressWorkerStopped
	ProgressWorkerFailed
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Run starts the workers, enqueues start, and blocks until every worker has
// stopped and every dispatched post has been handled. Seeding with
// forumcrawl.TerminationSignal stops the workers without fetching anything.
//
// Worker failures are joined into the returned error; the Result is returned
// either way.
func (c *Crawler) Run(ctx context.Context, start forumcrawl.FrontierItem) (*Result, error) {
	return c.run(ctx, &start)
}

// Join runs workers against a frontier that someone else seeds. It returns
// once a termination signal reaches every local worker.
func (c *Crawler) Join(ctx context.Context) (*Result, error) {
	return c.run(ctx, nil)
}

func (c *Crawler) run(ctx context.Context, start *forumcrawl.FrontierItem) (*Result, error) {
	logger := c.logger()
	begin := time.Now()

	workers := c.Workers
	if workers <= 0 {
		workers = 1
	}

	fetcher := c.Fetcher
	if c.Limiter != nil {
		fetcher = &limitedFetcher{limiter: c.Limiter, fetcher: c.Fetcher}
	}

	var (
		g    errgroup.Group
		errs = make([]error, workers)
	)
	for i := range workers {
		w := &Worker{
			ID:        fmt.Sprintf("worker-%d", i+1),
			Frontier:  c.Frontier,
			Fetcher:   fetcher,
			Markup:    c.Markup,
			Store:     c.Store,
			Counter:   c.Counter,
			Converter: c.Converter,
			Format:    c.Format,
			Threads:   c.Threads,
			Logger:    c.Logger,
			Progress:  c.Progress,
		}
		g.Go(func() error {
			errs[i] = w.Run(ctx)
			return nil
		})
	}

	if start != nil {
		if err := c.Frontier.Enqueue(ctx, *start); err != nil {
			// Nothing was seeded, so no worker can ever see a signal.
			// Seed one directly on a fresh context.
			_ = c.Frontier.Enqueue(context.WithoutCancel(ctx), forumcrawl.TerminationSignal)
			_ = g.Wait()
			return &Result{Duration: time.Since(begin)}, fmt.Errorf("seed frontier: %w", err)
		}
		logger.Info("crawl started", "start", startLabel(*start), "workers", workers, "threads", c.Threads)
	}
	_ = g.Wait()

	result := &Result{Duration: time.Since(begin)}
	for _, err := range errs {
		if err != nil {
			result.FailedWorkers++
		}
	}

	if !c.Shared {
		if err := c.drain(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if c.Counter != nil {
		n, err := c.Counter.Value(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("read counter: %w", err))
		}
		result.Completed = n
	}

	logger.Info("crawl finished",
		"posts", result.Completed,
		"failed_workers", result.FailedWorkers,
		"duration", result.Duration,
	)
	return result, errors.Join(errs...)
}

// drain removes the termination signals left behind by the last stopping
// worker. Only called once every local worker has returned.
func (c *Crawler) drain(ctx context.Context) error {
	for {
		n, err := c.Frontier.Len(ctx)
		if err != nil {
			return fmt.Errorf("drain frontier: %w", err)
		}
		if n == 0 {
			return nil
		}
		item, err := c.Frontier.Dequeue(ctx)
		if err != nil {
			return fmt.Errorf("drain frontier: %w", err)
		}
		if !item.Terminate {
			c.logger().Warn("page left in frontier after stop", "url", item.URL)
		}
	}
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

func startLabel(item forumcrawl.FrontierItem) string {
	if item.Terminate {
		return "terminate"
	}
	return item.URL
}

// limitedFetcher acquires the shared limiter before every fetch, so list
// pages and post pages draw from the same budget.
type limitedFetcher struct {
	limiter forumcrawl.RequestLimiter
	fetcher forumcrawl.Fetcher
}

func (f *limitedFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := f.limiter.Acquire(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}
	return f.fetcher.Fetch(ctx, url)
}
