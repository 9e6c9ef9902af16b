package mock

import (
	"context"

	"github.com/fwojciec/forumcrawl"
)

var _ forumcrawl.RunService = (*RunService)(nil)

// RunService is a mock implementation of forumcrawl.RunService.
type RunService struct {
	StartRunFn   func(ctx context.Context, run *forumcrawl.Run) error
	CurrentRunFn func(ctx context.Context) (*forumcrawl.Run, error)
	FinishRunFn  func(ctx context.Context, id string) error
}

func (s *RunService) StartRun(ctx context.Context, run *forumcrawl.Run) error {
	return s.StartRunFn(ctx, run)
}

func (s *RunService) CurrentRun(ctx context.Context) (*forumcrawl.Run, error) {
	return s.CurrentRunFn(ctx)
}

func (s *RunService) FinishRun(ctx context.Context, id string) error {
	return s.FinishRunFn(ctx, id)
}
