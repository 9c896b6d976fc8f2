package logging

import (
	"context"
	"log/slog"
	"time"
)

// Keys the console handler labels specially.
const (
	FieldEventType = "event_type"
	FieldErrorHint = "error_hint"
	FieldImpact    = "impact"
)

// String constructs a string attribute.
func String(key, value string) slog.Attr { return slog.String(key, value) }

// Int constructs an int attribute.
func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

// Float64 constructs a float attribute.
func Float64(key string, value float64) slog.Attr { return slog.Float64(key, value) }

// Bool constructs a boolean attribute.
func Bool(key string, value bool) slog.Attr { return slog.Bool(key, value) }

// Duration constructs a duration attribute.
func Duration(key string, value time.Duration) slog.Attr { return slog.Duration(key, value) }

// Error returns an attribute for errors using the conventional "error" key.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.Any("error", err)
}

// NewNop returns a logger that discards all output.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewComponentLogger scopes the logger to a component name.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// WarnWithContext logs a WARN record tagged with eventType.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...slog.Attr) {
	logEvent(logger, slog.LevelWarn, msg, eventType, "", attrs)
}

// ErrorWithContext logs an ERROR record tagged with eventType and a
// remediation hint.
func ErrorWithContext(logger *slog.Logger, msg, eventType, hint string, attrs ...slog.Attr) {
	logEvent(logger, slog.LevelError, msg, eventType, hint, attrs)
}

func logEvent(logger *slog.Logger, level slog.Level, msg, eventType, hint string, attrs []slog.Attr) {
	if logger == nil {
		return
	}
	fields := make([]slog.Attr, 0, len(attrs)+2)
	if eventType != "" {
		fields = append(fields, String(FieldEventType, eventType))
	}
	if hint != "" {
		fields = append(fields, String(FieldErrorHint, hint))
	}
	fields = append(fields, attrs...)
	logger.LogAttrs(context.Background(), level, msg, fields...)
}
