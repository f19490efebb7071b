package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

type ElementState string

const (
	StateVisible  ElementState = "visible"
	StateAttached ElementState = "attached"
	StateHidden   ElementState = "hidden"
	StateDetached ElementState = "detached"
)

func (s ElementState) selectorState() *playwright.WaitForSelectorState {
	switch s {
	case StateAttached:
		return playwright.WaitForSelectorStateAttached
	case StateHidden:
		return playwright.WaitForSelectorStateHidden
	case StateDetached:
		return playwright.WaitForSelectorStateDetached
	default:
		return playwright.WaitForSelectorStateVisible
	}
}

// Element is the slice of playwright.Locator the element helpers drive.
type Element interface {
	WaitFor(options ...playwright.LocatorWaitForOptions) error
	Click(options ...playwright.LocatorClickOptions) error
	Fill(value string, options ...playwright.LocatorFillOptions) error
}

// ClickWithContext waits for el to become visible, then clicks it.
func (w *Wrapper) ClickWithContext(ctx context.Context, el Element, label string, hint ...string) error {
	return w.Run(
		ctx, fmt.Sprintf("Click %s", label), func(ctx context.Context) error {
			if err := w.waitFor(ctx, el, StateVisible); err != nil {
				return err
			}

			return el.Click(playwright.LocatorClickOptions{Timeout: w.timeoutMs(ctx)})
		}, hint...,
	)
}

// TypeWithContext waits for el to become visible, then fills it with value.
func (w *Wrapper) TypeWithContext(ctx context.Context, el Element, label, value string, hint ...string) error {
	return w.Run(
		ctx, fmt.Sprintf("Type into %s", label), func(ctx context.Context) error {
			if err := w.waitFor(ctx, el, StateVisible); err != nil {
				return err
			}

			return el.Fill(value, playwright.LocatorFillOptions{Timeout: w.timeoutMs(ctx)})
		}, hint...,
	)
}

// WaitForElementWithContext waits until el reaches state.
func (w *Wrapper) WaitForElementWithContext(ctx context.Context, el Element, label string, state ElementState, hint ...string) error {
	return w.Run(
		ctx, fmt.Sprintf("Wait for %s to be %s", label, state), func(ctx context.Context) error {
			return w.waitFor(ctx, el, state)
		}, hint...,
	)
}

func (w *Wrapper) waitFor(ctx context.Context, el Element, state ElementState) error {
	return el.WaitFor(playwright.LocatorWaitForOptions{
		State:   state.selectorState(),
		Timeout: w.timeoutMs(ctx),
	})
}

// timeoutMs is the configured timeout in milliseconds, shortened to the
// context deadline when that comes first.
func (w *Wrapper) timeoutMs(ctx context.Context) *float64 {
	d := w.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < d {
			d = left
		}
	}
	if d < time.Millisecond {
		d = time.Millisecond
	}

	return playwright.Float(float64(d.Milliseconds()))
}
