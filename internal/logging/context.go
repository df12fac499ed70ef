package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

// ctxKey is an unexported type so no other package can collide with
// the logger entry.
type ctxKey struct{}

// WithLogger attaches logger to ctx. The review pipeline uses this to
// carry a per-run logger through provider and runner calls.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger attached to ctx, falling back to the
// process-wide default when none is set.
func FromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(ctxKey{}).(*log.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}
