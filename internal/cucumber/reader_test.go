package cucumber

import (
	"context"
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

//go:embed testdata/checkout.json
var checkoutReport string

//go:embed testdata/noisy.json
var noisyReport string

//go:embed testdata/invalid_status.json
var invalidStatusReport string

func TestReader_ReadAll(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected []Feature
		err      error
		anyErr   bool
	}{
		{
			name:  "test_checkout",
			input: checkoutReport,
			expected: []Feature{
				{
					URI:         "features/checkout.feature",
					ID:          "checkout",
					Keyword:     "Feature",
					Name:        "Checkout",
					Description: "  Buying things",
					Line:        1,
					Tags:        []Tag{{Name: "@shop", Line: 1}},
					Elements: []Element{
						{
							ID:      "checkout;checkout",
							Keyword: "Scenario",
							Name:    "Checkout",
							Line:    4,
							Type:    "scenario",
							Tags:    []Tag{{Name: "@smoke", Line: 3}},
							Steps: []Step{
								{
									Keyword: "Given ",
									Name:    "the cart has one item",
									Line:    5,
									Result:  Result{Status: StatusPassed, Duration: 1500000},
								},
								{
									Keyword: "When ",
									Name:    "Submit button",
									Line:    6,
									Result: Result{
										Status:       StatusFailed,
										Duration:     30000000000,
										ErrorMessage: "Timeout 30000ms exceeded while waiting for locator\nstack line",
									},
								},
							},
						},
					},
				},
			},
		},
		{
			name:  "test_noisy_output",
			input: noisyReport,
			expected: []Feature{
				{
					URI:  "a.feature",
					Name: "A",
					Elements: []Element{
						{
							Name: "S",
							Steps: []Step{
								{Keyword: "Given ", Name: "x", Result: Result{Status: StatusSkipped}},
							},
						},
					},
				},
			},
		},
		{
			name:  "test_empty",
			input: "  \n",
			err:   ErrEmptyReport,
		},
		{
			name:  "test_invalid_status",
			input: invalidStatusReport,
			err:   ErrInvalidReport,
		},
		{
			name:   "test_malformed",
			input:  `[{"name": "A", "elements": [`,
			anyErr: true,
		},
		{
			name:  "test_not_an_array",
			input: `{"name": "A"}`,
			err:   ErrInvalidReport,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(
			tc.name, func(t *testing.T) {
				t.Parallel()

				got, err := NewReader(strings.NewReader(tc.input)).ReadAll(context.Background())
				if tc.err != nil || tc.anyErr {
					if err == nil {
						t.Fatalf("expected error, got nil")
					}
					if tc.err != nil && !errors.Is(err, tc.err) {
						t.Fatalf("got error %v, want %v", err, tc.err)
					}
					return
				}

				if err != nil {
					t.Fatalf("ReadAll: %v", err)
				}

				if diff := cmp.Diff(tc.expected, got); diff != "" {
					t.Errorf("mismatch (-want, +got):\n%s", diff)
				}
			},
		)
	}
}

func TestStripANSI(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "test_plain", input: `[{"name":"x"}]`, expected: `[{"name":"x"}]`},
		{name: "test_color", input: "\x1b[32m[{}]\x1b[0m", expected: "[{}]"},
		{name: "test_multi_param", input: "a\x1b[1;31mb\x1b[Kc", expected: "abc"},
		{name: "test_bare_escape", input: "a\x1bb", expected: "a\x1bb"},
		{name: "test_truncated", input: "ok\x1b[31", expected: "ok"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(
			tc.name, func(t *testing.T) {
				t.Parallel()

				if got := string(stripANSI([]byte(tc.input))); got != tc.expected {
					t.Errorf("stripANSI(%q) = %q, want %q", tc.input, got, tc.expected)
				}
			},
		)
	}
}

func TestReader_ReadAllCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewReader(strings.NewReader(checkoutReport)).ReadAll(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	if _, err := ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("got %v, want os.ErrNotExist", err)
	}

	pth := filepath.Join(t.TempDir(), "report.json")
	if err := os.WriteFile(pth, []byte(checkoutReport), 0o644); err != nil {
		t.Fatal(err)
	}

	features, err := ReadFile(context.Background(), pth)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if len(features) != 1 || len(features[0].Elements) != 1 {
		t.Fatalf("unexpected features: %+v", features)
	}
}

func TestElement_Status(t *testing.T) {
	t.Parallel()

	step := func(status string, ns int64) Step {
		return Step{Name: status, Result: Result{Status: status, Duration: ns}}
	}

	testCases := []struct {
		name     string
		steps    []Step
		status   string
		duration time.Duration
	}{
		{
			name:     "test_all_passed",
			steps:    []Step{step(StatusPassed, 10), step(StatusPassed, 20)},
			status:   StatusPassed,
			duration: 30,
		},
		{
			name:     "test_failed_wins",
			steps:    []Step{step(StatusPassed, 10), step(StatusFailed, 5), step(StatusSkipped, 0)},
			status:   StatusFailed,
			duration: 15,
		},
		{
			name:   "test_skipped",
			steps:  []Step{step(StatusPassed, 0), step(StatusSkipped, 0)},
			status: StatusSkipped,
		},
		{
			name:   "test_undefined_as_skipped",
			steps:  []Step{step(StatusUndefined, 0)},
			status: StatusSkipped,
		},
		{
			name:   "test_case_insensitive",
			steps:  []Step{step("FAILED", 0)},
			status: StatusFailed,
		},
		{
			name:   "test_no_steps",
			status: StatusPassed,
		},
		{
			name:     "test_negative_duration_ignored",
			steps:    []Step{step(StatusPassed, -5), step(StatusPassed, 7)},
			status:   StatusPassed,
			duration: 7,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(
			tc.name, func(t *testing.T) {
				t.Parallel()

				e := Element{Steps: tc.steps}
				if got := e.Status(); got != tc.status {
					t.Errorf("Status() = %q, want %q", got, tc.status)
				}
				if got := e.Duration(); got != tc.duration {
					t.Errorf("Duration() = %v, want %v", got, tc.duration)
				}
			},
		)
	}
}

func TestElement_Helpers(t *testing.T) {
	t.Parallel()

	e := Element{
		Type: "background",
		Tags: []Tag{{Name: "@smoke"}, {Name: " @ "}, {Name: "regression"}},
		Steps: []Step{
			{Keyword: "Given ", Name: "ok", Result: Result{Status: StatusPassed}},
			{Keyword: "When ", Name: "boom", Result: Result{Status: StatusFailed, ErrorMessage: "first"}},
			{Keyword: "Then ", Name: "boom again", Result: Result{Status: StatusFailed, ErrorMessage: "second"}},
		},
	}

	if !e.IsBackground() {
		t.Error("expected background")
	}

	if diff := cmp.Diff([]string{"smoke", "regression"}, e.TagNames()); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}

	failed, ok := e.FirstFailure()
	if !ok || failed.Result.ErrorMessage != "first" {
		t.Errorf("FirstFailure() = %+v, %v", failed, ok)
	}

	if got := failed.Title(); got != "When boom" {
		t.Errorf("Title() = %q", got)
	}
}
