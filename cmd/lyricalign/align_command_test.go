package main

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"lyricalign/internal/pipeline"
	"lyricalign/internal/testsupport"
	"lyricalign/internal/transcript"
)

func TestAlignCommandWritesOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	lyrics := testsupport.WriteFile(t, filepath.Join(env.baseDir, "song.txt"), "We will, we will\nrock you")
	words := testsupport.WriteTranscript(t, filepath.Join(env.baseDir, "words.json"),
		testsupport.Words("we", "will", "we", "will", "rock", "you"))
	output := filepath.Join(env.baseDir, "aligned.json")

	out, _, err := runCLI(t, []string{"align", "--lyrics", lyrics, "--transcript", words, "--output", output}, env.configPath)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	requireContains(t, out, "== Alignment ==")
	requireContains(t, out, output)
	requireContains(t, out, "100.0% of 6 lyric words")

	aligned, err := transcript.ReadAligned(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(aligned) != 6 || aligned[4].Text != "rock" || aligned[4].Start != 4 {
		t.Fatalf("unexpected aligned output %+v", aligned)
	}
}

func TestAlignCommandJSONSummary(t *testing.T) {
	env := setupCLITestEnv(t)
	lyrics := testsupport.WriteFile(t, filepath.Join(env.baseDir, "song.txt"), "hello world goodbye")
	words := testsupport.WriteTranscript(t, filepath.Join(env.baseDir, "words.json"),
		testsupport.Words("um", "hello", "world"))

	out, _, err := runCLI(t, []string{
		"align", "--lyrics", lyrics, "--transcript", words,
		"--policy", "anchor", "--threshold", "0.9", "--lookahead", "2", "--json",
	}, env.configPath)
	if err != nil {
		t.Fatalf("align --json: %v", err)
	}

	var summary alignSummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode summary: %v\n%s", err, out)
	}
	if summary.Policy != "anchor" || summary.Threshold != 0.9 {
		t.Fatalf("flags not applied: %+v", summary)
	}
	if summary.AlignedTokens != 2 || summary.DroppedWords != 1 || summary.SkippedWords != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if summary.Source != string(pipeline.SourceFile) || summary.RunID == "" {
		t.Fatalf("unexpected run metadata: %+v", summary)
	}
	wantOut := filepath.Join(env.cfg.Paths.OutputDir, "song.aligned.json")
	if summary.OutputPath != wantOut {
		t.Fatalf("OutputPath = %q, want %q", summary.OutputPath, wantOut)
	}
}

func TestAlignCommandRejectsBadFlags(t *testing.T) {
	env := setupCLITestEnv(t)
	lyrics := testsupport.WriteFile(t, filepath.Join(env.baseDir, "song.txt"), "hello")
	words := testsupport.WriteTranscript(t, filepath.Join(env.baseDir, "words.json"), testsupport.Words("hello"))

	tests := []struct {
		name string
		args []string
	}{
		{"unknown policy", []string{"--policy", "closest"}},
		{"lookahead too large", []string{"--lookahead", "4"}},
		{"lookahead zero", []string{"--lookahead", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"align", "--lyrics", lyrics, "--transcript", words}, tt.args...)
			_, _, err := runCLI(t, args, env.configPath)
			if !errors.Is(err, pipeline.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	if _, _, err := runCLI(t, []string{"align", "--lyrics", lyrics}, env.configPath); err == nil {
		t.Fatal("expected error without transcript or audio")
	}
	if _, _, err := runCLI(t, []string{"align", "--lyrics", lyrics, "--transcript", words, "--audio", words}, env.configPath); err == nil {
		t.Fatal("expected error with both transcript and audio")
	}
}
