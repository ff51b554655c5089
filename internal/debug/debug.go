// Package debug carries the --debug flag through a context and builds the
// slog logger shared by the CLI and the API client.
package debug

import (
	"context"
	"io"
	"log/slog"
)

type contextKey string

const debugKey contextKey = "cognee_debug"

// WithDebug returns a context with debug mode enabled/disabled.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, debugKey, enabled)
}

// IsEnabled reports whether debug mode was set on ctx.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(debugKey).(bool); ok {
		return v
	}
	return false
}

// NewLogger returns a text logger writing to w. Verbose loggers emit
// per-attempt request records; others only warnings and errors.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetupLogger installs a logger writing to w as the slog default and
// returns it.
func SetupLogger(w io.Writer, debugEnabled bool) *slog.Logger {
	logger := NewLogger(w, debugEnabled)
	slog.SetDefault(logger)
	return logger
}
