package transcribe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lyricalign/internal/logging"
)

func writeAudio(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "song.mp3")
	if err := os.WriteFile(path, []byte("fake audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func argValue(args []string, flag string) (string, bool) {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1], true
		}
	}
	return "", false
}

func TestTranscribeFileLoadsWhisperXOutput(t *testing.T) {
	dir := t.TempDir()
	audio := writeAudio(t, dir)
	outDir := filepath.Join(dir, "work")

	svc := NewService(Config{Model: "medium", Language: "english"}, logging.NewNop())
	var gotName string
	var gotArgs []string
	svc.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		out, _ := argValue(args, "--output_dir")
		payload := `{"segments":[{"text":"hello world","words":[
			{"word":"Hello","start":0.1,"end":0.4},
			{"word":"world","start":0.5,"end":0.9},
			{"word":"1999"}]}]}`
		return os.WriteFile(filepath.Join(out, "song.json"), []byte(payload), 0o644)
	})

	result, err := svc.TranscribeFile(context.Background(), audio, outDir, "")
	if err != nil {
		t.Fatalf("TranscribeFile: %v", err)
	}
	if gotName != UVXCommand {
		t.Fatalf("command = %q, want %q", gotName, UVXCommand)
	}
	if model, _ := argValue(gotArgs, "--model"); model != "medium" {
		t.Fatalf("--model = %q", model)
	}
	if lang, _ := argValue(gotArgs, "--language"); lang != "en" {
		t.Fatalf("--language = %q, want en", lang)
	}
	if result.JSONPath != filepath.Join(outDir, "song.json") {
		t.Fatalf("JSONPath = %q", result.JSONPath)
	}
	if len(result.Document.Tokens) != 2 || result.Document.Skipped != 1 {
		t.Fatalf("unexpected document %+v", result.Document)
	}
}

func TestTranscribeFileErrors(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(Config{}, logging.NewNop())
	svc.WithCommandRunner(func(context.Context, string, ...string) error {
		return errors.New("exit status 1")
	})

	if _, err := svc.TranscribeFile(context.Background(), "", dir, ""); err == nil {
		t.Fatal("expected error for empty audio path")
	}
	if _, err := svc.TranscribeFile(context.Background(), filepath.Join(dir, "missing.mp3"), dir, ""); err == nil {
		t.Fatal("expected error for missing audio")
	}
	audio := writeAudio(t, dir)
	_, err := svc.TranscribeFile(context.Background(), audio, dir, "")
	if err == nil || !strings.Contains(err.Error(), "whisperx") {
		t.Fatalf("expected whisperx error, got %v", err)
	}
}

func TestTranscribeFileMissingOutput(t *testing.T) {
	dir := t.TempDir()
	audio := writeAudio(t, dir)
	svc := NewService(Config{}, logging.NewNop())
	svc.WithCommandRunner(func(context.Context, string, ...string) error { return nil })

	if _, err := svc.TranscribeFile(context.Background(), audio, "", ""); err == nil {
		t.Fatal("expected error when whisperx writes no json")
	}
}

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		lang   string
		want   map[string]string
		absent []string
	}{
		{
			name:   "cpu defaults",
			cfg:    Config{},
			lang:   "auto",
			want:   map[string]string{"--model": DefaultModel, "--device": CPUDevice, "--vad_method": VADMethodSilero, "--compute_type": CPUComputeType, "--index-url": PypiIndexURL},
			absent: []string{"--language", "--hf_token", "--extra-index-url"},
		},
		{
			name:   "cuda pyannote",
			cfg:    Config{CUDAEnabled: true, VADMethod: VADMethodPyannote, HFToken: "secret"},
			lang:   "de",
			want:   map[string]string{"--device": CUDADevice, "--hf_token": "secret", "--language": "de", "--index-url": CUDAIndexURL},
			absent: []string{"--compute_type"},
		},
		{
			name:   "silero ignores token",
			cfg:    Config{VADMethod: VADMethodSilero, HFToken: "secret"},
			lang:   "fr",
			absent: []string{"--hf_token"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.cfg, nil)
			args := svc.buildArgs("/music/song.flac", "/tmp/out", tt.lang)
			for flag, value := range tt.want {
				got, ok := argValue(args, flag)
				if !ok || got != value {
					t.Errorf("%s = %q (present %v), want %q", flag, got, ok, value)
				}
			}
			for _, flag := range tt.absent {
				if _, ok := argValue(args, flag); ok {
					t.Errorf("unexpected flag %s in %v", flag, args)
				}
			}
		})
	}
}

func TestLanguageFallback(t *testing.T) {
	svc := NewService(Config{Language: "spa"}, nil)
	if got := svc.Language(""); got != "es" {
		t.Fatalf("Language(\"\") = %q, want es", got)
	}
	if got := svc.Language("German"); got != "de" {
		t.Fatalf("Language(German) = %q, want de", got)
	}
	if got := NewService(Config{}, nil).Language(""); got != "auto" {
		t.Fatalf("Language with no config = %q, want auto", got)
	}
}

func TestRedactArgs(t *testing.T) {
	args := []string{"whisperx", "--hf_token", "secret", "--model", "small"}
	redacted := redactArgs(args)
	if redacted[2] != "***" {
		t.Fatalf("token not redacted: %v", redacted)
	}
	if args[2] != "secret" {
		t.Fatal("redactArgs mutated input")
	}
}

func TestAcquireLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locks", "transcribe.lock")
	release, err := AcquireLock(context.Background(), path, time.Second)
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}

	_, err = AcquireLock(context.Background(), path, 50*time.Millisecond)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked while held, got %v", err)
	}

	if err := release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	release, err = AcquireLock(context.Background(), path, time.Second)
	if err != nil {
		t.Fatalf("AcquireLock after release: %v", err)
	}
	_ = release()
}

func TestAcquireLockCanceled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcribe.lock")
	release, err := AcquireLock(context.Background(), path, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := AcquireLock(ctx, path, time.Second); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
