package logging

import (
	"context"
	"log/slog"
	"strings"
)

const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldStage     = "stage"
)

type contextKey string

const (
	runIDKey contextKey = "lyricalign.run_id"
	stageKey contextKey = "lyricalign.stage"
)

// WithRunID stores the run correlation ID on the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext returns the run ID stored on ctx, if any.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(runIDKey).(string)
	return v, ok && v != ""
}

// WithStage stores the current pipeline stage on the context.
func WithStage(ctx context.Context, stage string) context.Context {
	stage = strings.TrimSpace(stage)
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage stored on ctx, if any.
func StageFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(stageKey).(string)
	return v, ok && v != ""
}

// WithContext enriches the logger with run metadata stored on ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if ctx == nil {
		return logger
	}
	var attrs []any
	if runID, ok := RunIDFromContext(ctx); ok {
		attrs = append(attrs, String(FieldRunID, runID))
	}
	if stage, ok := StageFromContext(ctx); ok {
		attrs = append(attrs, String(FieldStage, stage))
	}
	if len(attrs) == 0 {
		return logger
	}
	return logger.With(attrs...)
}
