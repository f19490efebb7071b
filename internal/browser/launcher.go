package browser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/cposada23/BDDPlaywrightFramework/internal/artifact"
)

const (
	Chromium = "chromium"
	Firefox  = "firefox"
	WebKit   = "webkit"

	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
	DefaultTimeout        = 30 * time.Second
)

type Viewport struct {
	Width  int
	Height int
}

type Options struct {
	Browser   string
	Headless  bool
	BaseURL   string
	Timeout   time.Duration
	Viewport  Viewport
	Tracing   bool
	TracesDir string
	// Install downloads the browser binaries before the first launch.
	Install bool
}

// Launcher owns the playwright driver and the browser process shared by all
// lanes of a run. Scenarios get isolated contexts through Acquire.
type Launcher struct {
	mu      sync.Mutex
	opts    Options
	logger  *slog.Logger
	pw      *playwright.Playwright
	browser playwright.Browser
	started bool
}

func NewLauncher(opts Options, logger *slog.Logger) *Launcher {
	if opts.Browser == "" {
		opts.Browser = Chromium
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Viewport.Width == 0 || opts.Viewport.Height == 0 {
		opts.Viewport = Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Launcher{opts: opts, logger: logger}
}

// Start runs the playwright driver and launches the configured browser. It is
// a no-op once started.
func (l *Launcher) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.started {
		return nil
	}

	runOpts := &playwright.RunOptions{
		Browsers: []string{l.opts.Browser},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}

	if l.opts.Install {
		if err := playwright.Install(runOpts); err != nil {
			return fmt.Errorf("playwright.Install: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("playwright.Run: %w", err)
	}

	browserType, err := pickBrowserType(pw, l.opts.Browser)
	if err != nil {
		_ = pw.Stop()
		return err
	}

	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(l.opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return fmt.Errorf("browserType.Launch: %w", err)
	}

	l.pw = pw
	l.browser = browser
	l.started = true
	l.logger.Info("browser launched", "browser", l.opts.Browser, "headless", l.opts.Headless)

	return nil
}

func pickBrowserType(pw *playwright.Playwright, name string) (playwright.BrowserType, error) {
	switch strings.ToLower(name) {
	case Chromium:
		return pw.Chromium, nil
	case Firefox:
		return pw.Firefox, nil
	case WebKit:
		return pw.WebKit, nil
	default:
		return nil, fmt.Errorf("unsupported browser %q", name)
	}
}

// Acquire creates an isolated browser context and page for one scenario. When
// any part fails, what was already acquired is released before returning.
func (l *Launcher) Acquire(_ context.Context, scenarioName string) (*Session, error) {
	l.mu.Lock()
	browser := l.browser
	started := l.started
	l.mu.Unlock()

	if !started {
		return nil, fmt.Errorf("launcher not started")
	}

	scope := NewScope(l.logger)
	session := &Session{
		Name:      scenarioName,
		scope:     scope,
		CreatedAt: time.Now(),
	}

	contextOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  l.opts.Viewport.Width,
			Height: l.opts.Viewport.Height,
		},
	}
	if l.opts.BaseURL != "" {
		contextOpts.BaseURL = playwright.String(l.opts.BaseURL)
	}

	bctx, err := browser.NewContext(contextOpts)
	if err != nil {
		return nil, fmt.Errorf("browser.NewContext: %w", err)
	}
	scope.Add("context", func() error { return bctx.Close() })
	session.Context = bctx

	if l.opts.Tracing {
		if err := bctx.Tracing().Start(playwright.TracingStartOptions{
			Name:        playwright.String(artifact.Fragment(scenarioName)),
			Screenshots: playwright.Bool(true),
			Snapshots:   playwright.Bool(true),
		}); err != nil {
			_ = scope.Release()
			return nil, fmt.Errorf("tracing.Start: %w", err)
		}
		scope.Add("tracing", func() error { return l.stopTracing(session) })
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = scope.Release()
		return nil, fmt.Errorf("context.NewPage: %w", err)
	}
	scope.Add("page", func() error {
		if page.IsClosed() {
			return nil
		}
		return page.Close()
	})

	page.SetDefaultTimeout(float64(l.opts.Timeout.Milliseconds()))
	session.page = page

	return session, nil
}

// stopTracing stops the trace recorder, writing the trace file only when the
// session asked to keep it.
func (l *Launcher) stopTracing(s *Session) error {
	if !s.keepTrace {
		return s.Context.Tracing().Stop()
	}

	dir := l.opts.TracesDir
	if dir == "" {
		dir = "traces"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll: %w", err)
	}

	pth := filepath.Join(dir, fmt.Sprintf("%s-%d.zip", artifact.Fragment(s.Name), time.Now().UnixMilli()))
	if err := s.Context.Tracing().Stop(pth); err != nil {
		return err
	}
	s.TracePath = pth
	l.logger.Info("trace saved", "scenario", s.Name, "path", pth)

	return nil
}

// Shutdown closes the browser and stops the driver. Both are attempted.
func (l *Launcher) Shutdown() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return nil
	}

	scope := NewScope(l.logger)
	pw, browser := l.pw, l.browser
	scope.Add("playwright", func() error { return pw.Stop() })
	scope.Add("browser", func() error { return browser.Close() })

	l.started = false
	l.pw = nil
	l.browser = nil

	return scope.Release()
}
