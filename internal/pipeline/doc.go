// Package pipeline runs one lyric alignment end to end.
//
// A run obtains word timings (an existing transcript file, a transcript cache
// hit, or a fresh WhisperX transcription that is then cached), normalizes the
// lyrics, checks that lyrics and transcript plausibly describe the same song,
// aligns them, and writes the aligned JSON. Every run carries a UUID that is
// attached to its log lines.
//
// Failures are tagged with the markers in errors.go so the CLI can choose an
// exit code and a remediation hint.
package pipeline
