package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"lyricalign/internal/config"
)

// LogFileName is the file written under the configured log directory.
const LogFileName = "lyricalign.log"

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// Console receives records rendered in Format; nil selects stderr.
	Console io.Writer
	// File, when set, receives a JSON copy of every record regardless of
	// Format, so runs stay machine readable after the terminal scrolls away.
	File string
}

// New constructs a slog logger using the provided options. Source locations
// are attached at debug level.
func New(opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)
	source := level <= slog.LevelDebug

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	var primary slog.Handler
	switch format := strings.ToLower(strings.TrimSpace(opts.Format)); format {
	case "", "console":
		primary = newConsoleHandler(console, level, source)
	case "json":
		primary = newJSONHandler(console, level, source)
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	handlers := []slog.Handler{primary}
	if path := strings.TrimSpace(opts.File); path != "" {
		file, err := openLogFile(path)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, newJSONHandler(file, level, source))
	}
	return slog.New(newTeeHandler(handlers...)), nil
}

// NewFromConfig writes console output to stderr, keeping stdout for command
// results, and appends JSON records to <log_dir>/lyricalign.log.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{})
	}
	opts := Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
	if dir := strings.TrimSpace(cfg.Paths.LogDir); dir != "" {
		opts.File = filepath.Join(dir, LogFileName)
	}
	return New(opts)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}
