package config

import (
	"errors"
	"fmt"
	"math"

	"lyricalign/internal/align"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAlignment(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAlignment() error {
	if math.IsNaN(c.Alignment.Threshold) || math.IsInf(c.Alignment.Threshold, 0) {
		return errors.New("alignment.threshold must be a finite number")
	}
	if _, err := align.ParsePolicy(c.Alignment.Policy); err != nil {
		return fmt.Errorf("alignment.policy: %w", err)
	}
	if c.Alignment.Lookahead < 1 || c.Alignment.Lookahead > align.MaxLookahead {
		return fmt.Errorf("alignment.lookahead must be between 1 and %d", align.MaxLookahead)
	}
	if c.Alignment.MinLyricsSimilarity < 0 || c.Alignment.MinLyricsSimilarity > 1 {
		return errors.New("alignment.min_lyrics_similarity must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.VADMethod {
	case "silero", "pyannote":
	default:
		return fmt.Errorf("transcription.vad_method must be silero or pyannote, got %q", c.Transcription.VADMethod)
	}
	if c.Transcription.LockTimeoutSeconds <= 0 {
		return errors.New("transcription.lock_timeout_seconds must be positive")
	}
	return nil
}
