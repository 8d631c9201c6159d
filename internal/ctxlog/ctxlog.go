// Package ctxlog threads the request-scoped slog.Logger through
// context.Context. The compile pipeline installs one logger at the entry
// point and every stage below pulls it from the context; stages never
// construct their own.
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

// FromContext extracts the slog.Logger from a context. A context without a
// logger is a wiring bug, every entry point installs one, so this panics
// rather than silently logging to a default nobody configured.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	panic("ctxlog: logger missing from context")
}

// Discard returns a context carrying a logger that drops every record. It
// exists for tests and for call sites that must satisfy the logger contract
// without producing output.
func Discard() context.Context {
	return WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}
