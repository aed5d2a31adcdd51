// Package logger builds the process-wide slog logger for a given environment.
package logger

import (
	"os"

	"golang.org/x/exp/slog"
)

// New returns a text logger at debug level for local development and a JSON
// logger at info level everywhere else.
func New(env string) *slog.Logger {
	var handler slog.Handler

	switch env {
	case "local":
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	default:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}

	return slog.New(handler)
}
