// Package logging configures the process-wide slog logger. Subsystems log
// through Component children so output can be filtered per concern (engine,
// wizard, realtime) on a single shared famcoin server.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup creates the root text logger at the given level, sets it as the slog
// default, and returns it. Levels: "debug", "info", "warn", "error",
// case-insensitive; anything else falls back to info.
func Setup(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// Component returns a child logger tagged with the subsystem name.
func Component(logger *slog.Logger, name string) *slog.Logger {
	return logger.With(slog.String("component", name))
}
