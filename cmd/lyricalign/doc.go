// Package main hosts the lyricalign CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration and logging once, then hands
// off to the internal packages: align runs the pipeline (optionally re-running
// on file changes), transcribe produces word timings only, show renders an
// aligned file, cache maintains the transcript cache, and config scaffolds and
// checks the TOML configuration.
//
// Keep this package thin. New behaviour belongs in internal packages first and
// is surfaced here through flags.
package main
