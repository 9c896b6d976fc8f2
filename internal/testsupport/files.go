package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"lyricalign/internal/align"
	"lyricalign/internal/transcript"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteTranscript persists tokens as a word array transcript.
func WriteTranscript(t testing.TB, path string, tokens []align.TranscribedToken) string {
	t.Helper()

	if err := transcript.WriteTokens(path, tokens); err != nil {
		t.Fatalf("write transcript %s: %v", path, err)
	}
	return path
}

// Words builds evenly spaced transcription tokens, one second apart.
func Words(words ...string) []align.TranscribedToken {
	tokens := make([]align.TranscribedToken, len(words))
	for i, word := range words {
		tokens[i] = align.TranscribedToken{Text: word, Start: float64(i), End: float64(i) + 0.5}
	}
	return tokens
}
