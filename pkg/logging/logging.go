// Package logging configures colored structured logging with tint.
//
// The level comes from the FINBUDDY_LOG environment variable (debug, info,
// warn, error; default info) unless the caller overrides it, typically from a
// --verbose flag.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs the default logger at the level named by FINBUDDY_LOG.
// When verbose is true the level is forced to debug.
func Setup(verbose bool) {
	level := levelFromEnv()
	if verbose {
		level = slog.LevelDebug
	}
	SetupWithLevel(level)
}

// SetupWithLevel installs the default logger at an explicit level.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	))
}

// Component returns a logger tagged with the subsystem it belongs to.
func Component(name string) *slog.Logger {
	return slog.Default().With("component", name)
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("FINBUDDY_LOG")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
