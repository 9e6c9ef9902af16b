package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fwojciec/forumcrawl"
	"github.com/fwojciec/forumcrawl/crawl"
	"golang.org/x/time/rate"
)

// progressInterval is the minimum gap between two progress lines.
const progressInterval = time.Second

type progress struct {
	mu    sync.Mutex
	w     io.Writer
	every rate.Sometimes
}

// newProgress returns a progress callback that prints the running post count
// at most once per progressInterval, and every worker failure.
func newProgress(w io.Writer) crawl.ProgressFunc {
	p := &progress{w: w, every: rate.Sometimes{Interval: progressInterval}}
	return p.report
}

func (p *progress) report(e crawl.ProgressEvent) {
	switch e.Type {
	case crawl.ProgressPostSaved:
		p.every.Do(func() {
			p.printf("posts written: %d\n", e.Completed)
		})
	case crawl.ProgressWorkerFailed:
		p.printf("%s stopped at %s: %s\n", e.Worker, e.URL, forumcrawl.ErrorMessage(e.Error))
	}
}

func (p *progress) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}
