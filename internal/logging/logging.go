package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const EnvLogLevel = "LOG_LEVEL"

// ParseLevel maps DEBUG, INFO, WARN and ERROR onto slog levels. Anything else
// is INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a text logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	lv := new(slog.LevelVar)
	lv.Set(level)

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv}))
}

// Init builds the process logger from LOG_LEVEL, writing to stderr, and makes
// it the slog default. verbose forces debug output.
func Init(verbose bool) *slog.Logger {
	level := ParseLevel(os.Getenv(EnvLogLevel))
	if verbose {
		level = slog.LevelDebug
	}

	logger := New(os.Stderr, level)
	slog.SetDefault(logger)

	return logger
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
