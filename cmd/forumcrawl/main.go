package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/forumcrawl"
	"github.com/fwojciec/forumcrawl/config"
	"github.com/fwojciec/forumcrawl/fs"
	"github.com/fwojciec/forumcrawl/goquery"
	"github.com/fwojciec/forumcrawl/htmltomarkdown"
	fchttp "github.com/fwojciec/forumcrawl/http"
	fcslog "github.com/fwojciec/forumcrawl/slog"
	"github.com/fwojciec/forumcrawl/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite state database. Opened by Run when a state path is configured.
	DB *sqlite.DB

	// Fetcher replaces the HTTP fetcher. For end-to-end testing.
	Fetcher forumcrawl.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("forumcrawl"),
		kong.Description("Crawl wpForo forum sections into JSON files"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'forumcrawl --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	cfg, err := loadConfig(cli.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cli.State != "" {
		cfg.State.Path = cli.State
	}
	switch cmd {
	case "crawl":
		cli.Crawl.apply(cfg)
	case "work":
		cli.Work.apply(cfg)
		cfg.URLs.UseDefault = false
	}
	deps.Config = cfg

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if cmd == "crawl" || cmd == "work" {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}

	if cfg.State.Path != "" {
		m.DB = sqlite.NewDB(cfg.State.Path)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set FORUMCRAWL_STATE or --state to use a different state file\n")
			return fmt.Errorf("failed to open state file at %q: %w", cfg.State.Path, err)
		}
		defer m.Close()

		deps.DB = m.DB
		deps.Runs = sqlite.NewRunService(m.DB)
		deps.Ledger = sqlite.NewLedger(m.DB, "", nil)
	}

	if cmd == "crawl" || cmd == "work" {
		if err := m.wireCrawl(deps); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// wireCrawl builds the services shared by the crawl and work commands and
// verifies the forum session.
func (m *Main) wireCrawl(deps *Dependencies) error {
	cfg := deps.Config
	markup := goquery.NewMarkup(goquery.Selectors{
		Post:        cfg.Selectors.Post,
		Next:        cfg.Selectors.Next,
		Published:   cfg.Selectors.Published,
		Content:     cfg.Selectors.Content,
		LoginButton: cfg.Selectors.LoginButton,
	})

	fetcher := m.Fetcher
	if fetcher == nil {
		opts := []fchttp.Option{
			fchttp.WithTimeout(cfg.Session.Timeout),
			fchttp.WithUserAgent(cfg.Session.UserAgent),
		}
		if cfg.Session.Login {
			jar, err := NewSession(cfg)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "Hint: Export the forum cookies to %s or %s\n", cfg.Session.CookiesJSON, cfg.Session.CookiesCSV)
				return err
			}
			opts = append(opts, fchttp.WithCookieJar(jar))
		}
		fetcher = fchttp.NewFetcher(opts...)
	}
	fetcher = fcslog.NewLoggingFetcher(fetcher, deps.Logger)

	if cfg.Session.Login {
		if err := VerifyLogin(deps.Ctx, fetcher, markup, cfg.URLs.Home); err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Refresh the exported cookies or run with --no-login")
			return err
		}
		deps.Logger.Info("logged in", "home", cfg.URLs.Home)
	}

	deps.Fetcher = fetcher
	deps.Markup = markup
	deps.Store = fcslog.NewLoggingArtifactStore(fs.NewArtifactStore(cfg.Output.Dir), deps.Logger)
	if cfg.Output.Format == "markdown" {
		var opts []htmltomarkdown.Option
		if cfg.URLs.Home != "" {
			opts = append(opts, htmltomarkdown.WithDomain(cfg.URLs.Home))
		}
		deps.Converter = htmltomarkdown.NewConverter(opts...)
	}
	return nil
}

// loadConfig reads the file at path, or ./forumcrawl.yaml if it exists, over
// the defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if found := config.Find("", "."); found != "" {
		return config.Load(found)
	}
	return config.Default(), nil
}
