package hooks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cposada23/BDDPlaywrightFramework/internal/artifact"
	"github.com/cposada23/BDDPlaywrightFramework/internal/lifecycle"
)

// Environment is the browser state acquired for one scenario.
type Environment interface {
	Screen() artifact.Screen
	Bind(ctx context.Context) context.Context
	Release(keepTrace bool) error
}

type Provider interface {
	Acquire(ctx context.Context, scenarioName string) (Environment, error)
}

type ProviderFunc func(ctx context.Context, scenarioName string) (Environment, error)

func (f ProviderFunc) Acquire(ctx context.Context, scenarioName string) (Environment, error) {
	return f(ctx, scenarioName)
}

type Option func(*Hooks)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Hooks) {
		h.logger = logger
	}
}

// WithDebug captures a screenshot after every step, not only failing ones.
func WithDebug(debug bool) Option {
	return func(h *Hooks) {
		h.debug = debug
	}
}

// Hooks holds what every lane of a run shares: the artifact store, the
// environment provider and the capture policy.
type Hooks struct {
	store    *artifact.Store
	provider Provider
	logger   *slog.Logger
	debug    bool
}

func New(store *artifact.Store, provider Provider, opts ...Option) *Hooks {
	h := &Hooks{
		store:    store,
		provider: provider,
		logger:   slog.Default(),
	}

	for _, o := range opts {
		o(h)
	}

	return h
}

// SuiteStart clears the artifact directory and index. An error here must abort
// the run.
func (h *Hooks) SuiteStart() error {
	n, err := h.store.ClearAll()
	if err != nil {
		return fmt.Errorf("store.ClearAll: %w", err)
	}

	h.logger.Info("suite started", "screenshots_cleared", n, "debug", h.debug)

	return nil
}

// SuiteEnd drops the in-memory artifact index.
func (h *Hooks) SuiteEnd() {
	h.store.Close()
	h.logger.Info("suite finished")
}

// NewLane returns the lifecycle of one scenario run. Lanes never share a
// tracker or an environment.
func (h *Hooks) NewLane() *Lane {
	return &Lane{
		hooks:   h,
		tracker: lifecycle.New(),
	}
}

type Lane struct {
	hooks   *Hooks
	tracker *lifecycle.Tracker
	env     Environment
}

func (l *Lane) Position() lifecycle.Position {
	return l.tracker.Current()
}

// ScenarioStart resets the step cursor and acquires a fresh environment. On
// failure only the current scenario is aborted.
func (l *Lane) ScenarioStart(ctx context.Context, scenarioName string) (context.Context, error) {
	if l.env != nil {
		l.hooks.logger.Warn("previous environment still held, releasing", "scenario", l.tracker.Current().ScenarioName)
		l.release(false)
	}

	l.tracker.StartScenario(scenarioName)

	env, err := l.hooks.provider.Acquire(ctx, scenarioName)
	if err != nil {
		return ctx, fmt.Errorf("acquire environment for %q: %w", scenarioName, err)
	}
	l.env = env

	l.hooks.logger.Info("scenario started", "scenario", scenarioName)

	return env.Bind(ctx), nil
}

// AfterEachStep advances the step cursor and captures the page when the step
// failed or debug capture is on. It returns the index of the completed step.
func (l *Lane) AfterEachStep(_ context.Context, stepName string, failed bool) int {
	idx := l.tracker.CompleteStep()
	scenario := l.tracker.Current().ScenarioName

	if failed || l.hooks.debug {
		pth := l.tryCapture(
			"step", func() (string, error) {
				return l.hooks.store.Capture(l.screen(), scenario, stepName, idx)
			},
		)
		if pth != "" {
			l.hooks.logger.Info("📸 step screenshot", "step_index", idx, "step", stepName, "path", pth)
		}
	}

	l.hooks.logger.Debug("step completed", "scenario", scenario, "step_index", idx, "step", stepName, "failed", failed)

	return idx
}

// ScenarioEnd takes a last scenario-level screenshot on failure and always
// releases the environment. Neither capture nor release errors propagate.
func (l *Lane) ScenarioEnd(_ context.Context, scenarioName string, failed bool) {
	defer l.release(failed)

	if failed {
		pth := l.tryCapture(
			"scenario", func() (string, error) {
				return l.hooks.store.CaptureOnFailure(l.screen(), scenarioName)
			},
		)
		if pth != "" {
			l.hooks.logger.Info("📸 failure screenshot", "scenario", scenarioName, "path", pth)
		}
	}

	l.hooks.logger.Info("scenario finished", "scenario", scenarioName, "failed", failed, "steps", l.tracker.Current().StepIndex)
}

func (l *Lane) screen() artifact.Screen {
	if l.env == nil {
		return nil
	}

	return l.env.Screen()
}

func (l *Lane) release(keepTrace bool) {
	if l.env == nil {
		return
	}

	env := l.env
	l.env = nil

	if err := env.Release(keepTrace); err != nil {
		l.hooks.logger.Warn("environment release failed", "err", err)
	}
}

// tryCapture runs a best-effort capture. Errors and panics are logged and
// discarded so that they never replace the failure being reported.
func (l *Lane) tryCapture(what string, capture func() (string, error)) (pth string) {
	defer func() {
		if rec := recover(); rec != nil {
			l.hooks.logger.Warn("screenshot capture panicked", "kind", what, "panic", rec)
			pth = ""
		}
	}()

	pth, err := capture()
	if err != nil {
		l.hooks.logger.Warn("screenshot capture failed", "kind", what, "err", err)
		return ""
	}

	return pth
}
