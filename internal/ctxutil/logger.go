// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

// LoggerKey is the context key for the logger.
type LoggerKey struct{}

// NewLogger creates a logger writing to w at level, with short timestamps.
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// WithLogger returns a context with the logger embedded.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey{}, l)
}

// LoggerFromContext returns the logger from context, or log.Default() if not set.
func LoggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(LoggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
