package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected slog.Level
	}{
		{name: "test_debug", input: "debug", expected: slog.LevelDebug},
		{name: "test_warn", input: "WARN", expected: slog.LevelWarn},
		{name: "test_warning", input: "warning", expected: slog.LevelWarn},
		{name: "test_error", input: " ERROR ", expected: slog.LevelError},
		{name: "test_empty", input: "", expected: slog.LevelInfo},
		{name: "test_unknown", input: "loud", expected: slog.LevelInfo},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(
			tc.name, func(t *testing.T) {
				t.Parallel()

				if got := ParseLevel(tc.input); got != tc.expected {
					t.Errorf("ParseLevel(%q) = %v, want %v", tc.input, got, tc.expected)
				}
			},
		)
	}
}

func TestNew_Level(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown", "step", "Submit button")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %q", out)
	}
	if !strings.Contains(out, `step="Submit button"`) {
		t.Errorf("missing warn record: %q", out)
	}
}
