// Package config loads forumcrawl settings from a YAML file.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when no path is given.
const DefaultConfigFile = "forumcrawl.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Validation errors returned by Config.Validate.
var (
	ErrInvalidPause   = errors.New("invalid pause: must be non-negative")
	ErrInvalidWorkers = errors.New("invalid workers: count must be positive")
	ErrInvalidThreads = errors.New("invalid workers: threads must be positive")
	ErrNoOutputDir    = errors.New("no output directory specified")
	ErrInvalidFormat  = errors.New("invalid output format: must be text or markdown")
	ErrNoDefaultURL   = errors.New("no default URL specified: set urls.default or use --interactive")
	ErrNoHomeURL      = errors.New("no home URL specified: set urls.home or use --no-login")
	ErrNoCookieFile   = errors.New("no cookie file specified: set session.cookies_json")
	ErrInvalidTimeout = errors.New("invalid session timeout: must be positive")
)

// Config holds all crawl settings. The zero value is not usable; start
// from Default.
type Config struct {
	Pause     Pause     `yaml:"pause"`
	Output    Output    `yaml:"output"`
	Workers   Workers   `yaml:"workers"`
	URLs      URLs      `yaml:"urls"`
	Session   Session   `yaml:"session"`
	State     State     `yaml:"state"`
	Selectors Selectors `yaml:"selectors"`
}

// Pause throttles requests across every worker of a crawl.
type Pause struct {
	// Seconds between two requests. Zero disables pausing.
	Seconds float64 `yaml:"seconds"`
	Enabled bool    `yaml:"enabled"`
}

// Interval returns the effective minimum gap between requests.
func (p Pause) Interval() time.Duration {
	if !p.Enabled || p.Seconds <= 0 {
		return 0
	}
	return time.Duration(p.Seconds * float64(time.Second))
}

// Output controls where and how artifacts are written.
type Output struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

// Workers sizes the crawl.
type Workers struct {
	Count   int `yaml:"count"`
	Threads int `yaml:"threads"`
}

// URLs holds the forum entry points.
type URLs struct {
	// Default is the first list page crawled when not prompting.
	Default    string `yaml:"default"`
	UseDefault bool   `yaml:"use_default"`

	// Home is fetched to verify the login.
	Home string `yaml:"home"`
}

// Session configures HTTP access to the forum.
type Session struct {
	Login       bool          `yaml:"login"`
	CookiesJSON string        `yaml:"cookies_json"`
	CookiesCSV  string        `yaml:"cookies_csv"`
	UserAgent   string        `yaml:"user_agent"`
	Timeout     time.Duration `yaml:"timeout"`
}

// State locates the SQLite state file shared by crawl processes.
// An empty path keeps all state in process.
type State struct {
	Path string `yaml:"path"`
}

// Selectors override the CSS selectors of the stock wpForo theme.
// Empty fields keep the default.
type Selectors struct {
	Post        string `yaml:"post"`
	Next        string `yaml:"next"`
	Published   string `yaml:"published"`
	Content     string `yaml:"content"`
	LoginButton string `yaml:"login_button"`
}

// Default returns the configuration used when no file sets a value.
func Default() *Config {
	return &Config{
		Pause: Pause{Seconds: 1, Enabled: true},
		Output: Output{
			Dir:    "json",
			Format: "text",
		},
		Workers: Workers{Count: 2, Threads: 4},
		URLs:    URLs{UseDefault: true},
		Session: Session{
			Login:       true,
			CookiesJSON: "cookies.json",
			CookiesCSV:  "cookies.csv",
			UserAgent:   "forumcrawl/1.0",
			Timeout:     10 * time.Second,
		},
	}
}

// Load reads the YAML file at path over the defaults.
// If the file does not exist, it returns ErrConfigNotFound.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find returns configPath if it exists, else DefaultConfigFile in dir if
// that exists, else the empty string.
func Find(configPath, dir string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}
	path := filepath.Join(dir, DefaultConfigFile)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// Validate checks the settings needed to start a crawl.
func (c *Config) Validate() error {
	if c.Pause.Seconds < 0 {
		return ErrInvalidPause
	}
	if c.Workers.Count <= 0 {
		return ErrInvalidWorkers
	}
	if c.Workers.Threads <= 0 {
		return ErrInvalidThreads
	}
	if c.Output.Dir == "" {
		return ErrNoOutputDir
	}
	if c.Output.Format != "text" && c.Output.Format != "markdown" {
		return ErrInvalidFormat
	}
	if c.URLs.UseDefault && c.URLs.Default == "" {
		return ErrNoDefaultURL
	}
	if c.Session.Login {
		if c.URLs.Home == "" {
			return ErrNoHomeURL
		}
		if c.Session.CookiesJSON == "" {
			return ErrNoCookieFile
		}
	}
	if c.Session.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}
