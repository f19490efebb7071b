package failure

import (
	"context"
	"errors"

	"github.com/playwright-community/playwright-go"
)

// Error is a failure enhanced with its classification. Error() yields the
// formatted diagnostic; the cause stays reachable through Unwrap.
type Error struct {
	Record Record
	cause  error
}

func (e *Error) Error() string {
	return Format(e.Record)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Kind() Kind {
	return e.Record.Kind
}

// AssertionError is returned by page-object expectations.
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string {
	return e.Message
}

// Assertion builds an assertion failure.
func Assertion(msg string) error {
	return &AssertionError{Message: msg}
}

// Enhance classifies err for stepName and returns it as *Error. An error that
// was already enhanced is returned as is, so a failure is never re-classified
// while it propagates through nested wrappers.
func Enhance(err error, stepName, hint string) error {
	if err == nil {
		return nil
	}

	var enhanced *Error
	if errors.As(err, &enhanced) {
		return err
	}

	return &Error{
		Record: Classify(Extract(err), stepName, hint),
		cause:  err,
	}
}

// KindOf returns the classification carried by err, or classifies it on the
// spot when it has not been enhanced yet.
func KindOf(err error) Kind {
	var enhanced *Error
	if errors.As(err, &enhanced) {
		return enhanced.Record.Kind
	}

	return classifyKind(Extract(err))
}

// Extract is the adapter between browser-automation failures and the
// classifier: it reduces err to its declared name, kind and message.
func Extract(err error) Raw {
	if err == nil {
		return Raw{}
	}

	raw := Raw{Name: NameGeneric, Message: err.Error()}

	var pwErr *playwright.Error
	var assertErr *AssertionError

	switch {
	case errors.As(err, &pwErr):
		if pwErr.Name != "" {
			raw.Name = pwErr.Name
		}
		raw.Stack = pwErr.Stack
	case errors.As(err, &assertErr):
		raw.Name = KindNameAssert
		raw.DeclaredKind = KindNameAssert
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, playwright.ErrTimeout) {
		raw.Name = NameTimeout
	}

	return raw
}
