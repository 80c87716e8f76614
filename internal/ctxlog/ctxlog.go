// Package ctxlog provides a context key for safely passing a slog.Logger
// instance through context.Context.
package ctxlog

import (
	"context"
	"io"
	"log/slog"
)

// key is an unexported type to prevent collisions with context keys from other packages.
type key struct{}

// loggerKey is the key for the slog.Logger in a context.Context.
var loggerKey = key{}

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// discard is returned by FromContext when no logger has been embedded. The
// scheduler and graph packages are usable as a standalone library, so unlike
// an application-scoped context they must not panic just because a caller
// never called WithLogger.
var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// FromContext extracts the slog.Logger from a context. If no logger is
// found, it returns a logger that discards all output.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return discard
}
