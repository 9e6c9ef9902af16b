package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/forumcrawl"
	"github.com/fwojciec/forumcrawl/config"
	"github.com/fwojciec/forumcrawl/crawl"
	"github.com/fwojciec/forumcrawl/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config *config.Config

	// Crawl services.
	Fetcher   forumcrawl.Fetcher
	Markup    forumcrawl.Markup
	Store     forumcrawl.ArtifactStore
	Converter forumcrawl.Converter

	// State file services. Nil when no state path is configured.
	DB     *sqlite.DB
	Runs   forumcrawl.RunService
	Ledger forumcrawl.ArtifactLedger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"c" env:"FORUMCRAWL_CONFIG" help:"Path to YAML config file (default: ./forumcrawl.yaml)"`
	State   string `short:"s" env:"FORUMCRAWL_STATE" help:"SQLite state file shared by crawl processes"`
	Verbose bool   `short:"v" help:"Log debug output"`

	Crawl  CrawlCmd  `cmd:"" help:"Crawl a forum section from its first list page"`
	Work   WorkCmd   `cmd:"" help:"Join the running crawl of a state file with more workers"`
	Status StatusCmd `cmd:"" help:"Show the running crawl of a state file"`
}

// CrawlFlags override config values for the commands that run workers.
type CrawlFlags struct {
	Workers int    `short:"w" env:"FORUMCRAWL_WORKERS" help:"Number of workers"`
	Threads int    `short:"t" env:"FORUMCRAWL_THREADS" help:"Post threads per worker"`
	Output  string `short:"o" env:"FORUMCRAWL_OUTPUT" help:"Directory for post files"`
	Format  string `short:"f" env:"FORUMCRAWL_FORMAT" help:"Post body format: text or markdown"`
	NoPause bool   `name:"no-pause" help:"Do not pause between requests"`
	NoLogin bool   `name:"no-login" help:"Crawl without a forum session"`
}

func (f *CrawlFlags) apply(cfg *config.Config) {
	if f.Workers > 0 {
		cfg.Workers.Count = f.Workers
	}
	if f.Threads > 0 {
		cfg.Workers.Threads = f.Threads
	}
	if f.Output != "" {
		cfg.Output.Dir = f.Output
	}
	if f.Format != "" {
		cfg.Output.Format = f.Format
	}
	if f.NoPause {
		cfg.Pause.Enabled = false
	}
	if f.NoLogin {
		cfg.Session.Login = false
	}
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	CrawlFlags `embed:""`

	Interactive bool   `short:"i" help:"Prompt for the start URL"`
	URL         string `arg:"" optional:"" help:"First list page (default: urls.default from config)"`
}

func (c *CrawlCmd) apply(cfg *config.Config) {
	c.CrawlFlags.apply(cfg)
	if c.Interactive || c.URL != "" {
		cfg.URLs.UseDefault = false
	}
}

// WorkCmd is the "work" subcommand.
type WorkCmd struct {
	CrawlFlags `embed:""`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct {
	Recent int `short:"n" default:"10" help:"Number of recent posts to list"`
}

// newCrawler assembles a crawler for the run. Without a state file every
// component lives in process; with one the frontier, limiter, counter and
// artifact ledger are shared with other processes through it.
func (d *Dependencies) newCrawler(runID string) *crawl.Crawler {
	c := &crawl.Crawler{
		Fetcher:   d.Fetcher,
		Markup:    d.Markup,
		Converter: d.Converter,
		Format:    crawl.ContentFormat(d.Config.Output.Format),
		Workers:   d.Config.Workers.Count,
		Threads:   d.Config.Workers.Threads,
		Logger:    d.Logger,
		Progress:  newProgress(d.Stdout),
	}
	interval := d.Config.Pause.Interval()

	if d.DB == nil {
		c.Frontier = crawl.NewFrontier()
		c.Limiter = crawl.NewIntervalLimiter(interval)
		c.Counter = &crawl.Counter{}
		c.Store = d.Store
		return c
	}

	if d.Logger != nil {
		c.Logger = d.Logger.With("run", runID)
	}
	c.Frontier = sqlite.NewFrontier(d.DB, runID)
	c.Limiter = sqlite.NewLimiter(d.DB, runID, interval)
	c.Counter = sqlite.NewCounter(d.DB, runID)
	c.Store = sqlite.NewLedger(d.DB, runID, d.Store)
	c.Shared = true
	return c
}
