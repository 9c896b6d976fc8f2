package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"lyricalign/internal/align"
	"lyricalign/internal/config"
	"lyricalign/internal/logging"
	"lyricalign/internal/textnorm"
	"lyricalign/internal/textutil"
	"lyricalign/internal/transcribe"
	"lyricalign/internal/transcript"
	"lyricalign/internal/transcriptcache"
)

// Transcriber produces word timings for an audio file.
type Transcriber interface {
	Model() string
	Language(override string) string
	TranscribeFile(ctx context.Context, audioPath, outputDir, lang string) (transcribe.Result, error)
}

// Source reports where a run's word timings came from.
type Source string

const (
	SourceFile     Source = "file"
	SourceCache    Source = "cache"
	SourceWhisperX Source = "whisperx"
)

// Request describes one alignment run. Exactly one of TranscriptPath and
// AudioPath must be set.
type Request struct {
	LyricsPath     string
	TranscriptPath string
	AudioPath      string
	// OutputPath defaults to <output_dir>/<lyrics name>.aligned.json.
	OutputPath string
	Language   string
	// Options overrides the configured alignment settings when non-nil.
	Options *align.Options
}

// Result summarizes a finished run.
type Result struct {
	RunID          string
	OutputPath     string
	TranscriptPath string
	Source         Source
	Aligned        []align.AlignedToken
	Stats          align.Stats
	// LyricsSimilarity is the cosine similarity of lyric and transcript word
	// counts; -1 when either side is too short to compare.
	LyricsSimilarity float64
	UntimedWords     int
	Elapsed          time.Duration
}

// Runner executes alignment runs.
type Runner struct {
	cfg         *config.Config
	logger      *slog.Logger
	transcriber Transcriber
	cache       *transcriptcache.Store
	newRunID    func() string
	preflight   func() error
}

// Option customizes a Runner.
type Option func(*Runner)

// WithTranscriber replaces the WhisperX service.
func WithTranscriber(t Transcriber) Option {
	return func(r *Runner) { r.transcriber = t }
}

// WithCache enables transcript caching through store.
func WithCache(store *transcriptcache.Store) Option {
	return func(r *Runner) { r.cache = store }
}

// WithRunIDs overrides run ID generation.
func WithRunIDs(fn func() string) Option {
	return func(r *Runner) { r.newRunID = fn }
}

// New builds a Runner from configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.transcriber == nil {
		r.transcriber = transcribe.NewService(TranscribeConfig(cfg), logger)
		r.preflight = checkTranscriptionDeps
	}
	return r
}

// TranscribeConfig projects the transcription section onto the service config.
func TranscribeConfig(cfg *config.Config) transcribe.Config {
	return transcribe.Config{
		Model:       cfg.Transcription.Model,
		Language:    cfg.Transcription.Language,
		CUDAEnabled: cfg.Transcription.CUDAEnabled,
		VADMethod:   cfg.Transcription.VADMethod,
		HFToken:     cfg.Transcription.HFToken,
	}
}

// Run executes one alignment.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	started := time.Now()
	result := Result{RunID: r.newRunID(), LyricsSimilarity: -1}
	ctx = logging.WithRunID(ctx, result.RunID)

	if err := validateRequest(req); err != nil {
		return result, err
	}

	reference, lyricsText, err := r.readLyrics(ctx, req.LyricsPath)
	if err != nil {
		return result, err
	}

	var doc transcript.Document
	switch {
	case req.TranscriptPath != "":
		doc, err = r.loadTranscript(ctx, req.TranscriptPath)
		result.Source = SourceFile
		result.TranscriptPath = req.TranscriptPath
	default:
		var tr Transcription
		tr, err = r.Transcribe(ctx, req.AudioPath, req.Language)
		doc = tr.Document
		result.Source = tr.Source
		result.TranscriptPath = tr.WordsPath
	}
	if err != nil {
		return result, err
	}
	result.UntimedWords = doc.Skipped

	result.LyricsSimilarity = r.checkLyrics(ctx, lyricsText, doc)

	opts := r.cfg.AlignOptions()
	if req.Options != nil {
		opts = *req.Options
	}

	alignCtx := logging.WithStage(ctx, "align")
	logger := logging.WithContext(alignCtx, r.logger)
	result.Aligned, result.Stats = align.AlignWithStats(reference, doc.Tokens, opts)

	result.OutputPath = req.OutputPath
	if result.OutputPath == "" {
		result.OutputPath = r.defaultOutputPath(req.LyricsPath)
	}
	if err := transcript.WriteAligned(result.OutputPath, result.Aligned); err != nil {
		return result, Wrap(nil, "align", "write output", "", err)
	}
	result.Elapsed = time.Since(started)

	logger.Info("alignment complete",
		logging.String(logging.FieldEventType, "alignment_complete"),
		logging.String("output_path", result.OutputPath),
		logging.String("policy", opts.Policy.String()),
		logging.Float64("threshold", opts.Threshold),
		logging.Int("aligned_tokens", len(result.Aligned)),
		logging.Float64("coverage_percent", result.Stats.Coverage()*100),
		logging.Int("dropped_reference", result.Stats.DroppedReference),
		logging.Int("skipped_transcription", result.Stats.SkippedTranscription),
		logging.Int("one_to_one", result.Stats.OneToOne),
		logging.Int("many_to_one", result.Stats.ManyToOne),
		logging.Int("one_to_many", result.Stats.OneToMany),
		logging.Duration("elapsed", result.Elapsed),
	)
	if result.Stats.DroppedReference > 0 {
		logging.WarnWithContext(logger, "trailing lyrics left without timing", "lyrics_dropped",
			logging.Int("dropped_reference", result.Stats.DroppedReference),
			logging.String(logging.FieldImpact, "the last lyric lines have no timestamps"),
			logging.String(logging.FieldErrorHint, "lower the threshold or try --policy anchor"),
		)
	}
	return result, nil
}

func validateRequest(req Request) error {
	if strings.TrimSpace(req.LyricsPath) == "" {
		return Wrap(ErrValidation, "request", "", "lyrics path required", nil)
	}
	hasTranscript := strings.TrimSpace(req.TranscriptPath) != ""
	hasAudio := strings.TrimSpace(req.AudioPath) != ""
	if hasTranscript == hasAudio {
		return Wrap(ErrValidation, "request", "", "exactly one of transcript or audio is required", nil)
	}
	return nil
}

func (r *Runner) readLyrics(ctx context.Context, path string) ([]string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", Wrap(ErrNotFound, "lyrics", "read", path, err)
		}
		return nil, "", Wrap(nil, "lyrics", "read", path, err)
	}
	text := string(data)
	reference := textnorm.NormalizeDocument(text)
	if len(reference) == 0 {
		return nil, "", Wrap(ErrValidation, "lyrics", "normalize", path+" contains no words", nil)
	}

	logger := logging.WithContext(logging.WithStage(ctx, "lyrics"), r.logger)
	logger.Debug("lyrics normalized",
		logging.String("lyrics_path", path),
		logging.Int("lyrics_words", len(reference)),
		logging.String("first_words", strings.Join(reference[:min(5, len(reference))], " ")),
	)
	return reference, text, nil
}

func (r *Runner) loadTranscript(ctx context.Context, path string) (transcript.Document, error) {
	doc, err := transcript.Load(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return doc, Wrap(ErrNotFound, "transcript", "load", path, err)
		case errors.Is(err, transcript.ErrUnknownFormat):
			return doc, Wrap(ErrValidation, "transcript", "load", path, err)
		}
		return doc, Wrap(ErrValidation, "transcript", "parse", path, err)
	}
	logger := logging.WithContext(logging.WithStage(ctx, "transcript"), r.logger)
	logger.Debug("transcript loaded",
		logging.String("transcript_path", path),
		logging.String("format", string(doc.Format)),
		logging.Int("transcript_words", len(doc.Tokens)),
		logging.Int("untimed_words", doc.Skipped),
	)
	return doc, nil
}

// checkLyrics warns when lyrics and transcript share little vocabulary,
// which usually means the wrong lyrics file was passed.
func (r *Runner) checkLyrics(ctx context.Context, lyricsText string, doc transcript.Document) float64 {
	lyricsFP := textutil.NewFingerprint(textnorm.NormalizeDocument(lyricsText))
	spokenFP := textutil.NewFingerprint(textnorm.NormalizeDocument(doc.Text()))
	if lyricsFP == nil || spokenFP == nil {
		return -1
	}
	similarity := textutil.CosineSimilarity(lyricsFP, spokenFP)
	if similarity < r.cfg.Alignment.MinLyricsSimilarity {
		logger := logging.WithContext(logging.WithStage(ctx, "lyrics"), r.logger)
		logging.WarnWithContext(logger, "lyrics do not resemble the transcript", "lyrics_mismatch",
			logging.Float64("lyrics_similarity", similarity),
			logging.Float64("min_lyrics_similarity", r.cfg.Alignment.MinLyricsSimilarity),
			logging.String(logging.FieldImpact, "few lyric words will receive timing"),
			logging.String(logging.FieldErrorHint, "confirm the lyrics belong to this recording"),
		)
	}
	return similarity
}

func (r *Runner) defaultOutputPath(lyricsPath string) string {
	base := strings.TrimSuffix(filepath.Base(lyricsPath), filepath.Ext(lyricsPath))
	base = textutil.SanitizeFileName(base)
	if base == "" {
		base = "lyrics"
	}
	return filepath.Join(r.cfg.Paths.OutputDir, fmt.Sprintf("%s.aligned.json", base))
}
