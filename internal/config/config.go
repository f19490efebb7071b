package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cposada23/BDDPlaywrightFramework/internal/browser"
)

const (
	EnvDebugScreenshots = "DEBUG_SCREENSHOTS"
	EnvStepTimeout      = "STEP_TIMEOUT"
	EnvFailFast         = "FAIL_FAST"
	EnvRetries          = "RETRIES"
	EnvParallel         = "PARALLEL"
	EnvHeadless         = "HEADLESS"
	EnvBaseURL          = "BASE_URL"
	EnvBrowser          = "BROWSER"
	EnvTracing          = "TRACING"
	EnvScreenshotDir    = "SCREENSHOT_DIR"
	EnvReportPath       = "REPORT_PATH"
	EnvResultsDir       = "RESULTS_DIR"
	EnvTracesDir        = "TRACES_DIR"
	EnvTags             = "TAGS"
)

// Config is read once at startup and handed to the components as plain
// values.
type Config struct {
	Browser Browser `yaml:"browser"`
	Run     Run     `yaml:"run"`
	Paths   Paths   `yaml:"paths"`
}

type Browser struct {
	Name      string           `yaml:"name"`
	Headless  bool             `yaml:"headless"`
	BaseURL   string           `yaml:"base_url"`
	Tracing   bool             `yaml:"tracing"`
	Install   bool             `yaml:"install"`
	Viewport  browser.Viewport `yaml:"viewport"`
	TracesDir string           `yaml:"traces_dir"`
}

type Run struct {
	DebugScreenshots bool          `yaml:"debug_screenshots"`
	StepTimeout      time.Duration `yaml:"step_timeout"`
	FailFast         bool          `yaml:"fail_fast"`
	Retries          int           `yaml:"retries"`
	Parallel         int           `yaml:"parallel"`
	Tags             string        `yaml:"tags"`
	Features         []string      `yaml:"features"`
}

type Paths struct {
	Screenshots string `yaml:"screenshots"`
	Report      string `yaml:"report"`
	Results     string `yaml:"results"`
}

func Default() Config {
	return Config{
		Browser: Browser{
			Name:      browser.Chromium,
			Headless:  true,
			Viewport:  browser.Viewport{Width: browser.DefaultViewportWidth, Height: browser.DefaultViewportHeight},
			TracesDir: "traces",
		},
		Run: Run{
			StepTimeout: browser.DefaultTimeout,
			Parallel:    1,
			Features:    []string{"features"},
		},
		Paths: Paths{
			Screenshots: "screenshots",
			Report:      "reports/cucumber-report.json",
			Results:     "allure-results",
		},
	}
}

type Option func(*options)

type options struct {
	lookup func(key string) (string, bool)
}

// WithLookup replaces the environment lookup.
func WithLookup(lookup func(key string) (string, bool)) Option {
	return func(o *options) {
		o.lookup = lookup
	}
}

// Load reads the optional YAML file at pth over the defaults, then applies
// environment overrides and validates the result.
func Load(pth string, opts ...Option) (Config, error) {
	o := options{lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := Default()

	if pth != "" {
		data, err := os.ReadFile(pth)
		if err != nil {
			return Config{}, fmt.Errorf("os.ReadFile: %w", err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("yaml.Unmarshal: %w", err)
		}
	}

	if err := cfg.applyEnv(o.lookup); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	boolean := func(key string, dst *bool) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}

		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = b
	}

	integer := func(key string, dst *int) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}

		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = n
	}

	boolean(EnvDebugScreenshots, &c.Run.DebugScreenshots)
	boolean(EnvFailFast, &c.Run.FailFast)
	boolean(EnvHeadless, &c.Browser.Headless)
	boolean(EnvTracing, &c.Browser.Tracing)
	integer(EnvRetries, &c.Run.Retries)
	integer(EnvParallel, &c.Run.Parallel)
	str(EnvBaseURL, &c.Browser.BaseURL)
	str(EnvBrowser, &c.Browser.Name)
	str(EnvScreenshotDir, &c.Paths.Screenshots)
	str(EnvReportPath, &c.Paths.Report)
	str(EnvResultsDir, &c.Paths.Results)
	str(EnvTracesDir, &c.Browser.TracesDir)
	str(EnvTags, &c.Run.Tags)

	if v, ok := lookup(EnvStepTimeout); ok && strings.TrimSpace(v) != "" {
		d, err := parseTimeout(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvStepTimeout, err))
		} else {
			c.Run.StepTimeout = d
		}
	}

	return errors.Join(errs...)
}

// parseTimeout accepts a Go duration or a bare number of milliseconds.
func parseTimeout(v string) (time.Duration, error) {
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}

	return time.ParseDuration(v)
}

func (c Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Browser.Name) {
	case browser.Chromium, browser.Firefox, browser.WebKit:
	default:
		errs = append(errs, fmt.Errorf("browser.name: unsupported browser %q", c.Browser.Name))
	}

	if c.Browser.Viewport.Width <= 0 || c.Browser.Viewport.Height <= 0 {
		errs = append(errs, fmt.Errorf("browser.viewport: must be positive, got %dx%d",
			c.Browser.Viewport.Width, c.Browser.Viewport.Height))
	}

	if c.Run.StepTimeout <= 0 {
		errs = append(errs, fmt.Errorf("run.step_timeout: must be positive, got %s", c.Run.StepTimeout))
	}

	if c.Run.Retries < 0 {
		errs = append(errs, fmt.Errorf("run.retries: must not be negative, got %d", c.Run.Retries))
	}

	if c.Run.Parallel < 1 {
		errs = append(errs, fmt.Errorf("run.parallel: must be at least 1, got %d", c.Run.Parallel))
	}

	if c.Paths.Screenshots == "" {
		errs = append(errs, errors.New("paths.screenshots is required"))
	}

	return errors.Join(errs...)
}

// BrowserOptions maps the configuration onto the launcher options.
func (c Config) BrowserOptions() browser.Options {
	return browser.Options{
		Browser:   strings.ToLower(c.Browser.Name),
		Headless:  c.Browser.Headless,
		BaseURL:   c.Browser.BaseURL,
		Timeout:   c.Run.StepTimeout,
		Viewport:  c.Browser.Viewport,
		Tracing:   c.Browser.Tracing,
		TracesDir: c.Browser.TracesDir,
		Install:   c.Browser.Install,
	}
}
