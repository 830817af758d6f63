// Package log configures the process-wide structured logger and names
// the components both services log under.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Component names used in the "component" field.
const (
	ComponentApp     = "app"
	ComponentAPI     = "api"
	ComponentStorage = "storage"
	ComponentEvents  = "events"
	ComponentWebUI   = "webui"
	ComponentBackend = "backend"
)

// Setup installs a text slog handler on stdout as the process default
// and returns the root logger for the given component. The level
// string comes from configuration; anything unrecognized means info.
func Setup(level, component string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	logger := slog.New(handler).With("component", component)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a configuration string onto a slog level.
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

// For returns a child logger tagged with another component name.
func For(component string) *slog.Logger {
	return slog.Default().With("component", component)
}
