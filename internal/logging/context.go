package logging

import (
	"context"
	"log/slog"
)

type contextKey struct{}

type runFields struct {
	runID string
	root  string
}

// WithRun stores the run identity on ctx so loggers derived via WithContext
// carry run_id and root.
func WithRun(ctx context.Context, runID, root string) context.Context {
	return context.WithValue(ctx, contextKey{}, runFields{runID: runID, root: root})
}

// RunIDFromContext returns the run id stored by WithRun.
func RunIDFromContext(ctx context.Context) (string, bool) {
	fields, ok := ctx.Value(contextKey{}).(runFields)
	if !ok || fields.runID == "" {
		return "", false
	}
	return fields.runID, true
}

// WithContext decorates logger with the run fields found on ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields, ok := ctx.Value(contextKey{}).(runFields)
	if !ok {
		return logger
	}
	var attrs []any
	if fields.runID != "" {
		attrs = append(attrs, String(FieldRunID, fields.runID))
	}
	if fields.root != "" {
		attrs = append(attrs, String(FieldRoot, fields.root))
	}
	if len(attrs) == 0 {
		return logger
	}
	return logger.With(attrs...)
}
