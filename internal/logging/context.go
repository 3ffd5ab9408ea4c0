package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for pipeline run identifiers.
	FieldRunID = "run_id"
	// FieldPostID is the standardized structured logging key for post identifiers.
	FieldPostID = "post_id"
	// FieldArchive is the standardized structured logging key for archive paths.
	FieldArchive = "archive"
	// FieldAttempt is the standardized structured logging key for per-item attempt counts.
	FieldAttempt = "attempt"
	// FieldWait is the standardized structured logging key for rate-limit wait durations.
	FieldWait = "wait"
)

type runIDKey struct{}

type postIDKey struct{}

// WithRunID stores a pipeline run identifier on the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// WithPostID stores the in-flight post identifier on the context.
func WithPostID(ctx context.Context, id uint64) context.Context {
	return context.WithValue(ctx, postIDKey{}, id)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if runID, ok := ctx.Value(runIDKey{}).(string); ok && runID != "" {
		fields = append(fields, slog.String(FieldRunID, runID))
	}
	if id, ok := ctx.Value(postIDKey{}).(uint64); ok {
		fields = append(fields, slog.Uint64(FieldPostID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
