package suite

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cucumber/godog"

	"github.com/cposada23/BDDPlaywrightFramework/internal/artifact"
	"github.com/cposada23/BDDPlaywrightFramework/internal/browser"
	"github.com/cposada23/BDDPlaywrightFramework/internal/config"
	"github.com/cposada23/BDDPlaywrightFramework/internal/execution"
	"github.com/cposada23/BDDPlaywrightFramework/internal/hooks"
	"github.com/cposada23/BDDPlaywrightFramework/internal/steps"
)

const (
	Name = "bdd"

	// StatusSetupFailed is returned when the run could not start.
	StatusSetupFailed = 3
)

type Option func(*Runner)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithOutput sets where the pretty formatter writes.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.output = w
	}
}

// WithProvider replaces the playwright launcher as the source of scenario
// environments.
func WithProvider(p hooks.Provider) Option {
	return func(r *Runner) {
		r.provider = p
	}
}

// WithSteps registers additional step definitions in every lane.
func WithSteps(register ...func(sc *godog.ScenarioContext)) Option {
	return func(r *Runner) {
		r.registrars = append(r.registrars, register...)
	}
}

type Runner struct {
	cfg        config.Config
	logger     *slog.Logger
	output     io.Writer
	provider   hooks.Provider
	registrars []func(sc *godog.ScenarioContext)
}

func New(cfg config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		logger: slog.Default(),
		output: os.Stdout,
	}

	for _, o := range opts {
		o(r)
	}

	return r
}

// Run executes the feature files and returns the godog exit status. A non-nil
// error means the suite could not start and no scenario ran.
func (r *Runner) Run(ctx context.Context) (int, error) {
	store := artifact.New(r.cfg.Paths.Screenshots, artifact.WithLogger(r.logger))

	provider := r.provider
	if provider == nil {
		launcher := browser.NewLauncher(r.cfg.BrowserOptions(), r.logger)
		if err := launcher.Start(); err != nil {
			return StatusSetupFailed, fmt.Errorf("launcher.Start: %w", err)
		}

		defer func() {
			if err := launcher.Shutdown(); err != nil {
				r.logger.Warn("browser shutdown failed", "err", err)
			}
		}()

		provider = launcherProvider(launcher)
	}

	lifecycle := hooks.New(
		store, provider,
		hooks.WithLogger(r.logger),
		hooks.WithDebug(r.cfg.Run.DebugScreenshots),
	)

	if err := lifecycle.SuiteStart(); err != nil {
		return StatusSetupFailed, fmt.Errorf("hooks.SuiteStart: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.cfg.Paths.Report), 0o755); err != nil {
		return StatusSetupFailed, fmt.Errorf("os.MkdirAll: %w", err)
	}

	wrapper := execution.New(
		execution.WithLogger(r.logger),
		execution.WithTimeout(r.cfg.Run.StepTimeout),
		execution.WithRetries(r.cfg.Run.Retries),
	)
	webSteps := steps.New(wrapper, r.cfg.Browser.BaseURL)

	opts := &godog.Options{
		Format:         fmt.Sprintf("pretty,cucumber:%s", r.cfg.Paths.Report),
		Output:         r.output,
		Tags:           r.cfg.Run.Tags,
		Concurrency:    r.cfg.Run.Parallel,
		StopOnFailure:  r.cfg.Run.FailFast,
		Strict:         true,
		DefaultContext: ctx,
		Paths:          r.cfg.Run.Features,
	}

	ts := godog.TestSuite{
		Name: Name,
		TestSuiteInitializer: func(sc *godog.TestSuiteContext) {
			sc.BeforeSuite(func() {
				r.logger.Info(
					"running features",
					"paths", opts.Paths,
					"tags", opts.Tags,
					"parallel", opts.Concurrency,
					"fail_fast", opts.StopOnFailure,
				)
			})
			sc.AfterSuite(lifecycle.SuiteEnd)
		},
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			lifecycle.NewLane().Register(sc)
			webSteps.Register(sc)
			for _, register := range r.registrars {
				register(sc)
			}
		},
		Options: opts,
	}

	status := ts.Run()
	r.logger.Info("suite finished", "status", status, "report", r.cfg.Paths.Report)

	return status, nil
}

func launcherProvider(l *browser.Launcher) hooks.Provider {
	return hooks.ProviderFunc(func(ctx context.Context, scenarioName string) (hooks.Environment, error) {
		sess, err := l.Acquire(ctx, scenarioName)
		if err != nil {
			return nil, err
		}

		return sess, nil
	})
}
