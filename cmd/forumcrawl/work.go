package main

import (
	"fmt"

	"github.com/fwojciec/forumcrawl"
)

// Run executes the work command.
func (c *WorkCmd) Run(deps *Dependencies) error {
	if deps.Runs == nil {
		err := forumcrawl.Errorf(forumcrawl.EINVALID, "work needs a state file, set --state")
		fmt.Fprintf(deps.Stderr, "error: %s\n", forumcrawl.ErrorMessage(err))
		return err
	}

	run, err := deps.Runs.CurrentRun(deps.Ctx)
	if err != nil {
		if forumcrawl.ErrorCode(err) == forumcrawl.ENOTFOUND {
			fmt.Fprintln(deps.Stderr, "No running crawl. Use 'forumcrawl crawl --state' to start one.")
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", forumcrawl.ErrorMessage(err))
		}
		return err
	}
	fmt.Fprintf(deps.Stdout, "Joined run %s (%s)\n", run.ID, run.StartURL)

	result, err := deps.newCrawler(run.ID).Join(deps.Ctx)
	printSummary(deps.Stdout, result)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", forumcrawl.ErrorMessage(err))
		return err
	}
	return nil
}
