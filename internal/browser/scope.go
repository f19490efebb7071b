package browser

import (
	"errors"
	"fmt"
	"log/slog"
)

type resource struct {
	name    string
	release func() error
}

// Scope records every resource acquired for a scenario so that all of them
// can be released on any exit path, including a partially failed acquisition.
type Scope struct {
	logger    *slog.Logger
	resources []resource
	released  bool
}

func NewScope(logger *slog.Logger) *Scope {
	if logger == nil {
		logger = slog.Default()
	}

	return &Scope{logger: logger}
}

// Add registers a release func for a resource that was just acquired.
func (s *Scope) Add(name string, release func() error) {
	s.resources = append(s.resources, resource{name: name, release: release})
}

// Release releases resources in reverse acquisition order. Every release is
// attempted even when an earlier one fails; failures are logged and joined.
// Calling Release again is a no-op.
func (s *Scope) Release() error {
	if s.released {
		return nil
	}
	s.released = true

	var errs []error
	for i := len(s.resources) - 1; i >= 0; i-- {
		r := s.resources[i]
		if err := safeRelease(r); err != nil {
			s.logger.Warn("release failed", "resource", r.name, "err", err)
			errs = append(errs, fmt.Errorf("release %s: %w", r.name, err))
		}
	}
	s.resources = nil

	return errors.Join(errs...)
}

func safeRelease(r resource) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	return r.release()
}
