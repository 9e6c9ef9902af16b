package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/forumcrawl"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	if deps.Runs == nil {
		err := forumcrawl.Errorf(forumcrawl.EINVALID, "status needs a state file, set --state")
		fmt.Fprintf(deps.Stderr, "error: %s\n", forumcrawl.ErrorMessage(err))
		return err
	}

	run, err := deps.Runs.CurrentRun(deps.Ctx)
	if forumcrawl.ErrorCode(err) == forumcrawl.ENOTFOUND {
		fmt.Fprintln(deps.Stdout, "No running crawl. Use 'forumcrawl crawl --state' to start one.")
		return nil
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", forumcrawl.ErrorMessage(err))
		return err
	}

	records, err := deps.Ledger.FindArtifacts(deps.Ctx, forumcrawl.ArtifactFilter{RunID: &run.ID})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", forumcrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Run:     %s\n", run.ID)
	fmt.Fprintf(deps.Stdout, "Start:   %s\n", run.StartURL)
	fmt.Fprintf(deps.Stdout, "Started: %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(deps.Stdout, "Posts:   %d\n", len(records))

	recent := records
	if c.Recent >= 0 && len(recent) > c.Recent {
		recent = recent[len(recent)-c.Recent:]
	}
	for _, r := range recent {
		fmt.Fprintf(deps.Stdout, "  %s  %s/%s  %s\n", r.Path, r.WorkerID, r.ThreadID, r.URL)
	}
	return nil
}
