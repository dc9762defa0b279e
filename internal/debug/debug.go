// Package debug carries the debug flag through contexts and configures slog.
package debug

import (
	"context"
	"io"
	"log/slog"
)

type contextKey string

const debugKey contextKey = "debug_enabled"

// WithDebug returns a context with debug mode enabled/disabled.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, debugKey, enabled)
}

// IsEnabled returns true if debug mode is enabled in the context.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(debugKey).(bool); ok {
		return v
	}
	return false
}

// SetupLogger installs a text slog handler on w. Request tracing is only
// visible when debug mode is on; otherwise warnings and errors are kept.
func SetupLogger(w io.Writer, enabled bool) {
	level := slog.LevelWarn
	if enabled {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == "token" {
				return slog.String("token", "[redacted]")
			}
			return a
		},
	})
	slog.SetDefault(slog.New(handler).With("client", "rapidpro"))
}
