package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	if err := os.WriteFile(present, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Optional", Command: "also-not-present-binary", Optional: true},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Detail != present {
		t.Fatalf("expected first requirement to resolve, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[3].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[3].Detail)
	}

	missing := Missing(results)
	if len(missing) != 2 {
		t.Fatalf("expected 2 missing required binaries, got %#v", missing)
	}
	for _, status := range missing {
		if status.Optional {
			t.Fatalf("optional requirement reported as missing: %#v", status)
		}
	}
}

func TestTranscriptionRequirements(t *testing.T) {
	reqs := TranscriptionRequirements()
	commands := map[string]bool{}
	for _, req := range reqs {
		commands[req.Command] = true
	}
	if !commands["uvx"] || !commands["ffmpeg"] {
		t.Fatalf("unexpected requirements: %#v", reqs)
	}
}
