package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fwojciec/forumcrawl"
	"github.com/fwojciec/forumcrawl/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	start, err := c.start(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", forumcrawl.ErrorMessage(err))
		return err
	}

	var runID string
	if deps.Runs != nil {
		run := &forumcrawl.Run{StartURL: start.URL}
		if err := deps.Runs.StartRun(deps.Ctx, run); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", forumcrawl.ErrorMessage(err))
			return err
		}
		runID = run.ID
		fmt.Fprintf(deps.Stdout, "Started run %s\n", runID)
	}

	crawler := deps.newCrawler(runID)
	result, err := crawler.Run(deps.Ctx, start)

	if deps.Runs != nil {
		if ferr := deps.Runs.FinishRun(context.WithoutCancel(deps.Ctx), runID); ferr != nil {
			fmt.Fprintf(deps.Stderr, "error: finish run: %s\n", forumcrawl.ErrorMessage(ferr))
		}
	}

	printSummary(deps.Stdout, result)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", forumcrawl.ErrorMessage(err))
		return err
	}
	return nil
}

// start resolves the first frontier item from the argument, the prompt, or
// the configured default URL.
func (c *CrawlCmd) start(deps *Dependencies) (forumcrawl.FrontierItem, error) {
	switch {
	case c.URL != "":
		if !strings.HasPrefix(c.URL, "http") {
			return forumcrawl.FrontierItem{}, forumcrawl.Errorf(forumcrawl.EINVALID, "start URL must begin with http: %q", c.URL)
		}
		return forumcrawl.PageItem(c.URL), nil
	case c.Interactive || !deps.Config.URLs.UseDefault:
		return PromptStart(deps.Stdin, deps.Stdout)
	default:
		return forumcrawl.PageItem(deps.Config.URLs.Default), nil
	}
}

// printSummary writes the one-line outcome of a crawl.
func printSummary(w io.Writer, r *crawl.Result) {
	if r == nil {
		return
	}
	fmt.Fprintf(w, "Done: %d posts written, %d workers failed, took %s\n",
		r.Completed, r.FailedWorkers, r.Duration.Round(time.Millisecond))
}
