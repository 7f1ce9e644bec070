// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logger := logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.NoColor)
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: info), used when no level
//	is configured
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs a tint logger writing to w as the slog default and returns
// it. An empty level falls back to LOG_LEVEL.
func Setup(w io.Writer, level string, noColor bool) *slog.Logger {
	lvl := levelFromEnv()
	if strings.TrimSpace(level) != "" {
		lvl = ParseLevel(level)
	}
	logger := New(w, lvl, noColor)
	slog.SetDefault(logger)
	return logger
}

// New returns a tint logger writing to w.
func New(w io.Writer, level slog.Level, noColor bool) *slog.Logger {
	return slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
			NoColor:    noColor,
		}),
	)
}

// ParseLevel maps debug, warn and error to their slog levels. Anything else
// is INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func levelFromEnv() slog.Level {
	return ParseLevel(os.Getenv("LOG_LEVEL"))
}
