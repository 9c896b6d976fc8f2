package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lyricalign/internal/deps"
	"lyricalign/internal/logging"
	"lyricalign/internal/textutil"
	"lyricalign/internal/transcribe"
	"lyricalign/internal/transcript"
	"lyricalign/internal/transcriptcache"
)

// Transcription is the word timing obtained for an audio file.
type Transcription struct {
	Document transcript.Document
	Source   Source
	Language string
	// WordsPath is the word array written next to the aligned output.
	WordsPath string
}

// Transcribe returns word timings for audioPath, consulting the transcript
// cache before running WhisperX. Fresh transcriptions are cached.
func (r *Runner) Transcribe(ctx context.Context, audioPath, lang string) (Transcription, error) {
	ctx = logging.WithStage(ctx, "transcribe")
	logger := logging.WithContext(ctx, r.logger)

	var out Transcription
	if _, err := os.Stat(audioPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return out, Wrap(ErrNotFound, "transcribe", "stat audio", audioPath, err)
		}
		return out, Wrap(nil, "transcribe", "stat audio", audioPath, err)
	}
	out.Language = r.transcriber.Language(lang)
	out.WordsPath = r.wordsPath(audioPath)

	var key transcriptcache.Key
	useCache := r.cache != nil && r.cfg.Transcription.CacheEnabled
	if useCache {
		var err error
		key, err = transcriptcache.NewKey(audioPath, r.transcriber.Model(), out.Language)
		if err != nil {
			return out, Wrap(nil, "transcribe", "cache key", audioPath, err)
		}
		if hit, ok := r.cached(ctx, key); ok {
			out.Document = hit
			out.Source = SourceCache
			return out, r.writeWords(out)
		}
	}

	if r.preflight != nil {
		if err := r.preflight(); err != nil {
			return out, err
		}
	}

	timeout := time.Duration(r.cfg.Transcription.LockTimeoutSeconds) * time.Second
	release, err := transcribe.AcquireLock(ctx, r.cfg.TranscribeLockPath(), timeout)
	if err != nil {
		return out, Wrap(nil, "transcribe", "lock", "", err)
	}
	defer func() {
		if err := release(); err != nil {
			logger.Warn("release transcription lock failed", logging.Error(err))
		}
	}()

	// another process may have finished the same audio while we waited
	if useCache {
		if hit, ok := r.cached(ctx, key); ok {
			out.Document = hit
			out.Source = SourceCache
			return out, r.writeWords(out)
		}
	}

	res, err := r.transcriber.TranscribeFile(ctx, audioPath, r.cfg.WorkDir(), out.Language)
	if err != nil {
		return out, Wrap(ErrExternalTool, "transcribe", "whisperx", audioPath, err)
	}
	out.Document = res.Document
	out.Source = SourceWhisperX

	if useCache {
		entry := transcriptcache.Entry{
			Key:          key,
			AudioPath:    audioPath,
			Tokens:       res.Document.Tokens,
			UntimedWords: res.Document.Skipped,
		}
		if err := r.cache.Put(ctx, entry); err != nil {
			logging.WarnWithContext(logger, "transcript cache write failed", "cache_write_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "the next run will transcribe again"),
			)
		}
	}
	return out, r.writeWords(out)
}

func (r *Runner) cached(ctx context.Context, key transcriptcache.Key) (transcript.Document, bool) {
	logger := logging.WithContext(ctx, r.logger)
	entry, err := r.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, transcriptcache.ErrNotFound) {
			logger.Warn("transcript cache read failed", logging.Error(err))
		}
		return transcript.Document{}, false
	}
	logger.Info("transcript cache hit",
		logging.Bool("cache_hit", true),
		logging.String("audio_path", entry.AudioPath),
		logging.Int("transcript_words", entry.WordCount),
	)
	return transcript.Document{
		Format:  transcript.FormatWords,
		Tokens:  entry.Tokens,
		Skipped: entry.UntimedWords,
	}, true
}

func (r *Runner) wordsPath(audioPath string) string {
	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	base = textutil.SanitizeFileName(base)
	if base == "" {
		base = "audio"
	}
	return filepath.Join(r.cfg.Paths.OutputDir, base+".words.json")
}

func (r *Runner) writeWords(t Transcription) error {
	if err := transcript.WriteTokens(t.WordsPath, t.Document.Tokens); err != nil {
		return Wrap(nil, "transcribe", "write words", "", err)
	}
	return nil
}

func checkTranscriptionDeps() error {
	missing := deps.Missing(deps.CheckBinaries(deps.TranscriptionRequirements()))
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, 0, len(missing))
	for _, status := range missing {
		names = append(names, status.Command)
	}
	return Wrap(ErrExternalTool, "transcribe", "preflight", fmt.Sprintf("missing %s", strings.Join(names, ", ")), nil)
}
