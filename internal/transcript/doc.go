// Package transcript reads word-level transcription files and writes the
// aligned token JSON.
//
// Two input layouts are recognized: a flat array of {word,start,end} records
// and the WhisperX document with words nested under segments. Words that the
// recognizer could not time are skipped and counted on the returned Document.
package transcript
