package failure

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/playwright-community/playwright-go"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		err      error
		expected Raw
	}{
		{
			name: "test_playwright_error",
			err: fmt.Errorf("click failed: %w", &playwright.Error{
				Name:    NameTimeout,
				Message: "Timeout 30000ms exceeded.",
				Stack:   "TimeoutError: Timeout 30000ms exceeded.",
			}),
			expected: Raw{
				Name:    NameTimeout,
				Message: "click failed: Timeout 30000ms exceeded.",
				Stack:   "TimeoutError: Timeout 30000ms exceeded.",
			},
		},
		{
			name:     "test_deadline",
			err:      fmt.Errorf("wait: %w", context.DeadlineExceeded),
			expected: Raw{Name: NameTimeout, Message: "wait: context deadline exceeded"},
		},
		{
			name:     "test_assertion",
			err:      Assertion("title mismatch"),
			expected: Raw{Name: KindNameAssert, DeclaredKind: KindNameAssert, Message: "title mismatch"},
		},
		{
			name:     "test_plain",
			err:      errors.New("boom"),
			expected: Raw{Name: NameGeneric, Message: "boom"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(
			tc.name, func(t *testing.T) {
				t.Parallel()
				if diff := cmp.Diff(tc.expected, Extract(tc.err)); diff != "" {
					t.Errorf("mismatch (-want, +got):\n%s", diff)
				}
			},
		)
	}
}

func TestEnhance(t *testing.T) {
	t.Parallel()

	cause := errors.New("element is not visible")
	err := Enhance(cause, "Open contact form", "menu must be expanded")

	var enhanced *Error
	if !errors.As(err, &enhanced) {
		t.Fatalf("got: %T, want: *Error", err)
	}

	if !errors.Is(err, cause) {
		t.Errorf("enhanced error lost its cause")
	}

	if diff := cmp.Diff(KindNotVisible, enhanced.Kind()); diff != "" {
		t.Errorf("kind mismatch (-want, +got):\n%s", diff)
	}

	for _, want := range []string{"Open contact form", "element is not visible", "menu must be expanded"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("got: %q, want it to contain %q", err.Error(), want)
		}
	}

	again := Enhance(fmt.Errorf("outer: %w", err), "Other step", "")
	var reEnhanced *Error
	if !errors.As(again, &reEnhanced) {
		t.Fatalf("got: %T, want: *Error", again)
	}
	if diff := cmp.Diff("Open contact form", reEnhanced.Record.StepName); diff != "" {
		t.Errorf("record re-classified (-want, +got):\n%s", diff)
	}

	if Enhance(nil, "step", "") != nil {
		t.Errorf("got: non-nil, want: nil for nil error")
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	if diff := cmp.Diff(KindTimeout, KindOf(context.DeadlineExceeded)); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}

	enhanced := Enhance(errors.New("Element is not attached"), "s", "")
	if diff := cmp.Diff(KindStaleElement, KindOf(enhanced)); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}
}
