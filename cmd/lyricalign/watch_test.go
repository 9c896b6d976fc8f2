package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lyricalign/internal/logging"
)

func TestWatchFilesDebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "lyrics.txt")
	other := filepath.Join(dir, "other.txt")
	if err := os.WriteFile(target, []byte("one"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- watchFiles(ctx, []string{target}, 20*time.Millisecond, logging.NewNop(), func() {
			changed <- struct{}{}
		})
	}()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	fired := false
	for !fired {
		select {
		case <-changed:
			fired = true
		case <-ticker.C:
			// keep writing until the watcher has registered the directory
			if err := os.WriteFile(other, []byte("ignored"), 0o644); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(target, []byte("two"), 0o644); err != nil {
				t.Fatal(err)
			}
		case <-ctx.Done():
			t.Fatal("watcher never reported a change")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watchFiles returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watchFiles did not return after cancel")
	}
}

func TestWatchFilesMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope", "lyrics.txt")
	err := watchFiles(context.Background(), []string{missing}, time.Millisecond, logging.NewNop(), func() {})
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}
