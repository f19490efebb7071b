package execution

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/cposada23/BDDPlaywrightFramework/internal/failure"
)

const (
	DefaultTimeout = 30 * time.Second
	defaultBackoff = 500 * time.Millisecond
)

type Option func(*Wrapper)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Wrapper) {
		w.logger = logger
	}
}

// WithTimeout bounds how long element operations wait for their target.
func WithTimeout(d time.Duration) Option {
	return func(w *Wrapper) {
		if d > 0 {
			w.timeout = d
		}
	}
}

// WithRetries allows n extra attempts for operations failing with a transient
// kind (timeout, stale element).
func WithRetries(n int) Option {
	return func(w *Wrapper) {
		if n >= 0 {
			w.retries = n
		}
	}
}

func WithBackoff(d time.Duration) Option {
	return func(w *Wrapper) {
		w.backoff = d
	}
}

// Wrapper runs browser actions and assertions, logging their progress and
// turning failures into classified diagnostics. It never swallows a failure.
type Wrapper struct {
	logger  *slog.Logger
	timeout time.Duration
	retries int
	backoff time.Duration
}

func New(opts ...Option) *Wrapper {
	w := &Wrapper{
		logger:  slog.Default(),
		timeout: DefaultTimeout,
		backoff: defaultBackoff,
	}

	for _, o := range opts {
		o(w)
	}

	return w
}

func (w *Wrapper) Timeout() time.Duration {
	return w.timeout
}

// Run executes op as the step stepName. hint is attached to the diagnostic as
// context when op fails.
func (w *Wrapper) Run(ctx context.Context, stepName string, op func(ctx context.Context) error, hint ...string) error {
	_, err := Do(
		ctx, w, stepName, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, op(ctx)
		}, hint...,
	)

	return err
}

// Do is Run for operations producing a value. The value is returned unmodified
// on success.
func Do[T any](ctx context.Context, w *Wrapper, stepName string, op func(ctx context.Context) (T, error), hint ...string) (T, error) {
	var zero T

	w.logger.Debug("▶ step started", "step", stepName)

	attempts := w.retries + 1
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		var out T
		out, err = op(ctx)
		if err == nil {
			w.logger.Debug("✓ step passed", "step", stepName, "attempt", attempt)
			return out, nil
		}

		if attempt == attempts || !failure.KindOf(err).Transient() {
			break
		}

		w.logger.Warn("step failed, retrying", "step", stepName, "attempt", attempt, "err", err)
		if !sleep(ctx, w.backoff) {
			break
		}
	}

	enhanced := failure.Enhance(err, stepName, strings.Join(hint, "; "))
	w.logger.Error(enhanced.Error())

	return zero, enhanced
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
