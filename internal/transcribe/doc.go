// Package transcribe runs WhisperX through uvx to obtain word-level
// timestamps for an audio file.
//
// The service writes WhisperX JSON into an output directory and decodes it
// with the transcript package. Command execution is injectable so tests can
// fake the external tool. AcquireLock serializes transcriptions across
// processes sharing a cache directory.
package transcribe
