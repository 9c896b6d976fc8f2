// Package transcriptcache persists WhisperX word timings in SQLite so
// re-aligning the same audio with edited lyrics skips transcription.
//
// Entries are keyed by the SHA-256 of the audio contents together with the
// model and language, so renaming a file still hits the cache while switching
// models does not. Schema changes ship as embedded migrations.
package transcriptcache
