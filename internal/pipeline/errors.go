package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrExternalTool  = errors.New("external tool error")
	ErrNotFound      = errors.New("not found")
)

// Wrap prefixes err with stage and operation context and tags it with marker.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		return fmt.Errorf("%s: %w", detail, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps a run error to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound):
		return 2
	case errors.Is(err, ErrConfiguration):
		return 3
	case errors.Is(err, ErrExternalTool):
		return 4
	default:
		return 1
	}
}

// Hint returns a short remediation for marked errors.
func Hint(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "check the input paths"
	case errors.Is(err, ErrConfiguration):
		return "run `lyricalign config validate`"
	case errors.Is(err, ErrExternalTool):
		return "ensure uvx and ffmpeg are installed and on PATH"
	default:
		return ""
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{stage, operation, message} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
