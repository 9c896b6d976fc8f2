// Package config loads, normalizes, and validates lyricalign configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// HF_TOKEN. The Config type centralizes the alignment, transcription, and
// logging knobs so the CLI and pipeline discover them in one pass.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical policy names, and clear validation errors.
package config
