package forumcrawl

import (
	"context"
	"time"
)

// Run is one crawl recorded in a shared state file. Worker processes that
// join a crawl attach to the current run.
type Run struct {
	ID         string
	StartURL   string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Finished reports whether the run has been marked finished.
func (r *Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// RunService manages crawl runs.
type RunService interface {
	// StartRun assigns an ID and start time and records the run.
	StartRun(ctx context.Context, run *Run) error

	// CurrentRun returns the most recently started unfinished run.
	// Returns ENOTFOUND if there is none.
	CurrentRun(ctx context.Context) (*Run, error)

	// FinishRun marks a run finished. Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, id string) error
}
