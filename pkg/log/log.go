// Package log configures the process-wide structured logger used by all
// agentics binaries.
package log

import (
	"log/slog"
	"os"
)

// Setup installs a text handler on the default slog logger. Unknown level
// names fall back to info.
func Setup(logLevel string) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(logLevel),
	})))
}

func parseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithModule returns a logger scoped to a named module.
func WithModule(module string) *slog.Logger {
	return slog.With("module", module)
}
