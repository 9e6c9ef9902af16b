package crawl

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fwojciec/forumcrawl"
)

// WorkerState is the position of a worker in its loop.
type WorkerState int

const (
	StateIdle WorkerState = iota
	StateFetching
	StateDispatching
	StateStopped
)

func (s WorkerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateDispatching:
		return "dispatching"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("WorkerState(%d)", int(s))
	}
}

// ContentFormat selects how post bodies are stored in artifacts.
type ContentFormat string

const (
	ContentText     ContentFormat = "text"
	ContentMarkdown ContentFormat = "markdown"
)

// Worker drains list pages from the frontier. For every page it publishes
// the next frontier item first and then hands each post to its own PostPool.
type Worker struct {
	ID        string
	Frontier  forumcrawl.Frontier
	Fetcher   forumcrawl.Fetcher
	Markup    forumcrawl.Markup
	Store     forumcrawl.ArtifactStore
	Counter   forumcrawl.Counter
	Converter forumcrawl.Converter
	Format    ContentFormat
	Threads   int
	Logger    *slog.Logger
	Progress  ProgressFunc
}

// Run loops until a termination signal arrives, the context ends, or a list
// page cannot be fetched or parsed. Before returning it waits for every post
// task it dispatched.
//
// A page failure is fatal to this worker. The failing page held the only
// continuation of the pagination chain, so the worker forwards a termination
// signal before returning; pagination stops but idle workers do not hang.
func (w *Worker) Run(ctx context.Context) error {
	logger := w.logger()
	pool := NewPostPool(ctx, w.Threads)
	defer pool.Close()

	logger.Info("worker is up", "threads", w.Threads)
	for {
		w.setState(StateIdle)
		item, err := w.Frontier.Dequeue(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", w.ID, err)
		}

		if item.Terminate {
			if err := w.Frontier.Enqueue(ctx, forumcrawl.TerminationSignal); err != nil {
				return fmt.Errorf("%s: forward termination: %w", w.ID, err)
			}
			pool.Close()
			w.setState(StateStopped)
			w.report(ProgressEvent{Type: ProgressWorkerStopped, Worker: w.ID})
			return nil
		}

		if err := w.handlePage(ctx, item.URL, pool); err != nil {
			logger.Error("page failed, worker stopping", "url", item.URL, "err", err)
			if ferr := w.Frontier.Enqueue(ctx, forumcrawl.TerminationSignal); ferr != nil {
				logger.Error("forward termination", "err", ferr)
			}
			pool.Close()
			w.setState(StateStopped)
			w.report(ProgressEvent{Type: ProgressWorkerFailed, Worker: w.ID, URL: item.URL, Error: err})
			return fmt.Errorf("%s: page %s: %w", w.ID, item.URL, err)
		}
	}
}

// handlePage fetches one list page, publishes the next frontier item, and
// dispatches the page's posts.
func (w *Worker) handlePage(ctx context.Context, url string, pool *PostPool) error {
	w.setState(StateFetching)
	w.logger().Info("handling page", "url", url)

	html, err := w.Fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}
	page, err := w.Markup.ParseListPage(html, url)
	if err != nil {
		return err
	}

	next := forumcrawl.TerminationSignal
	if page.NextURL != "" {
		next = forumcrawl.PageItem(page.NextURL)
	}
	if err := w.Frontier.Enqueue(ctx, next); err != nil {
		return fmt.Errorf("enqueue next: %w", err)
	}
	w.report(ProgressEvent{Type: ProgressPageFetched, Worker: w.ID, URL: url, Posts: len(page.Posts)})

	w.setState(StateDispatching)
	for _, stub := range page.Posts {
		pool.Submit(func(ctx context.Context, threadID string) {
			id := forumcrawl.WorkerIdentity{WorkerID: w.ID, ThreadID: threadID}
			if err := w.extractPost(ctx, stub, id); err != nil {
				w.logger().Error("probably not a valid post, skipping",
					"thread", threadID,
					"url", stub.URL,
					"err", err,
				)
				w.report(ProgressEvent{Type: ProgressPostSkipped, Worker: w.ID, URL: stub.URL, Error: err})
			}
		})
	}
	return nil
}

// extractPost fetches a post's own page, builds its artifact, stores it, and
// counts it. Any error leaves the counter untouched.
func (w *Worker) extractPost(ctx context.Context, stub forumcrawl.PostStub, id forumcrawl.WorkerIdentity) error {
	if err := stub.Validate(); err != nil {
		return err
	}

	html, err := w.Fetcher.Fetch(ctx, stub.URL)
	if err != nil {
		return err
	}
	page, err := w.Markup.ParsePostPage(html)
	if err != nil {
		return err
	}
	if err := page.Validate(); err != nil {
		return err
	}

	contents, err := w.contents(page)
	if err != nil {
		return err
	}
	artifact, err := forumcrawl.NewPostArtifact(stub, page.Published, contents)
	if err != nil {
		return err
	}

	path, err := w.Store.SaveArtifact(ctx, id, artifact)
	if err != nil {
		return fmt.Errorf("save artifact: %w", err)
	}

	n, err := w.Counter.Increment(ctx)
	if err != nil {
		return fmt.Errorf("count artifact %s: %w", path, err)
	}
	w.logger().Info("added post", "count", n, "thread", id.ThreadID, "path", path)
	w.report(ProgressEvent{Type: ProgressPostSaved, Worker: w.ID, URL: stub.URL, Completed: n})
	return nil
}

func (w *Worker) contents(page *forumcrawl.PostPage) ([]string, error) {
	out := make([]string, len(page.Contents))
	for i, c := range page.Contents {
		if w.Format != ContentMarkdown || w.Converter == nil {
			out[i] = c.Text
			continue
		}
		md, err := w.Converter.Convert(c.HTML)
		if err != nil {
			// Empty bodies have nothing to convert; keep the text.
			if forumcrawl.ErrorCode(err) == forumcrawl.EINVALID {
				out[i] = c.Text
				continue
			}
			return nil, fmt.Errorf("convert content: %w", err)
		}
		out[i] = md
	}
	return out, nil
}

func (w *Worker) setState(s WorkerState) {
	w.logger().Debug("worker state", "state", s.String())
}

func (w *Worker) report(e ProgressEvent) {
	if w.Progress != nil {
		w.Progress(e)
	}
}

func (w *Worker) logger() *slog.Logger {
	if w.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return w.Logger.With("worker", w.ID)
}
