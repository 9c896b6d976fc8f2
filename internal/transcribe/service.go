package transcribe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"lyricalign/internal/language"
	"lyricalign/internal/logging"
	"lyricalign/internal/transcript"
)

// CommandRunner executes an external command.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Service runs WhisperX and loads the word timings it writes.
type Service struct {
	cfg    Config
	logger *slog.Logger
	runner CommandRunner
}

// NewService creates a WhisperX service with the given configuration.
func NewService(cfg Config, logger *slog.Logger) *Service {
	return &Service{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "transcribe"),
		runner: execCommand,
	}
}

// WithCommandRunner swaps process execution, for tests.
func (s *Service) WithCommandRunner(runner CommandRunner) {
	if runner == nil {
		runner = execCommand
	}
	s.runner = runner
}

// Model returns the configured model name.
func (s *Service) Model() string {
	if model := strings.TrimSpace(s.cfg.Model); model != "" {
		return model
	}
	return DefaultModel
}

// Language picks override, then the configured language, then auto
// detection. Names and codes are both accepted.
func (s *Service) Language(override string) string {
	for _, candidate := range []string{override, s.cfg.Language} {
		if code := language.ToISO2(candidate); code != "" {
			return code
		}
	}
	return language.Auto
}

// Result describes a finished transcription.
type Result struct {
	JSONPath string
	Language string
	Document transcript.Document
	Elapsed  time.Duration
}

// TranscribeFile runs WhisperX on audioPath and loads the word timings it
// produced. outputDir defaults to the audio file's directory.
func (s *Service) TranscribeFile(ctx context.Context, audioPath, outputDir, lang string) (Result, error) {
	audioPath = strings.TrimSpace(audioPath)
	if audioPath == "" {
		return Result{}, errors.New("transcribe: audio path required")
	}
	if _, err := os.Stat(audioPath); err != nil {
		return Result{}, fmt.Errorf("transcribe: %w", err)
	}
	if outputDir == "" {
		outputDir = filepath.Dir(audioPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("transcribe: ensure output dir: %w", err)
	}

	result := Result{
		Language: s.Language(lang),
		JSONPath: outputPath(audioPath, outputDir),
	}
	args := s.buildArgs(audioPath, outputDir, result.Language)

	logger := logging.WithContext(ctx, s.logger)
	logger.Info("transcription started",
		logging.String("audio_path", audioPath),
		logging.String("model", s.Model()),
		logging.String("language", language.DisplayName(result.Language)),
		logging.Bool("cuda", s.cfg.CUDAEnabled),
	)
	if logger.Enabled(ctx, slog.LevelDebug) {
		logger.Debug("whisperx command", logging.String("command", UVXCommand+" "+strings.Join(redactArgs(args), " ")))
	}

	started := time.Now()
	if err := s.runner(ctx, UVXCommand, args...); err != nil {
		return result, fmt.Errorf("whisperx: %w", err)
	}
	result.Elapsed = time.Since(started)

	doc, err := transcript.Load(result.JSONPath)
	if err != nil {
		return result, fmt.Errorf("load whisperx output: %w", err)
	}
	result.Document = doc

	logger.Info("transcription finished",
		logging.String("transcript_path", result.JSONPath),
		logging.Int("transcript_words", len(doc.Tokens)),
		logging.Int("untimed_words", doc.Skipped),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

// outputPath is where WhisperX writes its JSON: the audio base name in
// outputDir.
func outputPath(audioPath, outputDir string) string {
	name := filepath.Base(audioPath)
	return filepath.Join(outputDir, strings.TrimSuffix(name, filepath.Ext(name))+".json")
}

func execCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	// pyannote checkpoints do not load under torch's weights_only default.
	if _, set := os.LookupEnv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD"); !set {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (s *Service) buildArgs(audioPath, outputDir, lang string) []string {
	args := s.indexArgs()
	args = append(args, "whisperx", audioPath, "--model", s.Model(), "--output_dir", outputDir)
	args = append(args, decodingFlags...)
	args = append(args, s.vadArgs()...)
	if lang != "" && lang != language.Auto {
		args = append(args, "--language", lang)
	}
	return append(args, s.deviceArgs()...)
}

func (s *Service) indexArgs() []string {
	if s.cfg.CUDAEnabled {
		return []string{"--index-url", CUDAIndexURL, "--extra-index-url", PypiIndexURL}
	}
	return []string{"--index-url", PypiIndexURL}
}

func (s *Service) vadArgs() []string {
	method := s.cfg.VADMethod
	if method == "" {
		method = VADMethodSilero
	}
	args := []string{"--vad_method", method}
	if method == VADMethodPyannote && s.cfg.HFToken != "" {
		args = append(args, "--hf_token", s.cfg.HFToken)
	}
	return args
}

func (s *Service) deviceArgs() []string {
	if s.cfg.CUDAEnabled {
		return []string{"--device", CUDADevice}
	}
	return []string{"--device", CPUDevice, "--compute_type", CPUComputeType}
}

func redactArgs(args []string) []string {
	out := slices.Clone(args)
	for i := 1; i < len(out); i++ {
		if out[i-1] == "--hf_token" {
			out[i] = "***"
		}
	}
	return out
}
