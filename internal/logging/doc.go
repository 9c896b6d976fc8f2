// Package logging builds the slog loggers used by lyricalign: a readable
// console handler for terminals, a JSON handler for files and pipes, and
// helpers that tag records with the run ID and pipeline stage carried on a
// context.
package logging
