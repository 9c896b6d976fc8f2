package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"lyricalign/internal/align"
	"lyricalign/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains output, log, and cache directories.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
	CacheDir  string `toml:"cache_dir"`
}

// Alignment contains the alignment engine settings.
type Alignment struct {
	// Threshold is the minimum similarity for a fuzzy match. Values outside
	// [0,1] are passed to the engine unchanged.
	Threshold float64 `toml:"threshold"`
	// Policy is "similarity" or "anchor".
	Policy string `toml:"policy"`
	// Lookahead bounds word merging on either side (1 disables merging).
	Lookahead int `toml:"lookahead"`
	// MinLyricsSimilarity is the whole-document cosine similarity below which
	// the lyrics are reported as probably not matching the audio.
	MinLyricsSimilarity float64 `toml:"min_lyrics_similarity"`
}

// Transcription contains WhisperX settings.
type Transcription struct {
	Model              string `toml:"model"`
	Language           string `toml:"language"`
	CUDAEnabled        bool   `toml:"cuda_enabled"`
	VADMethod          string `toml:"vad_method"`
	HFToken            string `toml:"hf_token"`
	CacheEnabled       bool   `toml:"cache_enabled"`
	LockTimeoutSeconds int    `toml:"lock_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for lyricalign.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Alignment     Alignment     `toml:"alignment"`
	Transcription Transcription `toml:"transcription"`
	Logging       Logging       `toml:"logging"`
}

// ProjectConfigName is the per-directory config file consulted when the user
// config does not exist.
const ProjectConfigName = "lyricalign.toml"

// DefaultConfigPath returns the absolute path of the user config file.
func DefaultConfigPath() (string, error) {
	return ExpandPath(defaultConfigPath)
}

// Load reads the config file at path, or when path is empty the first of the
// user and project config files that exists, over the defaults. Paths in the
// result are absolute. It also reports which file was consulted and whether
// it existed.
func Load(path string) (*Config, string, bool, error) {
	resolved, exists, err := locate(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if exists {
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

// locate returns the first existing candidate, or the first candidate when
// none exists.
func locate(path string) (string, bool, error) {
	candidates := []string{defaultConfigPath, ProjectConfigName}
	if strings.TrimSpace(path) != "" {
		candidates = []string{path}
	}

	var first string
	for _, candidate := range candidates {
		abs, err := ExpandPath(candidate)
		if err != nil {
			return "", false, err
		}
		if first == "" {
			first = abs
		}
		info, err := os.Stat(abs)
		switch {
		case err == nil && !info.IsDir():
			return abs, true, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf("stat config: %w", err)
		}
	}
	return first, false, nil
}

// EnsureDirectories creates the output, log, and cache directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir, c.Paths.CacheDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// AlignOptions converts the alignment section into engine options.
func (c *Config) AlignOptions() align.Options {
	policy, err := align.ParsePolicy(c.Alignment.Policy)
	if err != nil {
		policy = align.PolicySimilarity
	}
	return align.Options{
		Threshold: c.Alignment.Threshold,
		Policy:    policy,
		Lookahead: c.Alignment.Lookahead,
	}
}

// TranscriptCachePath returns the SQLite database backing the transcript cache.
func (c *Config) TranscriptCachePath() string {
	return filepath.Join(c.Paths.CacheDir, "transcripts.db")
}

// TranscribeLockPath returns the lock file guarding concurrent transcription.
func (c *Config) TranscribeLockPath() string {
	return filepath.Join(c.Paths.CacheDir, "transcribe.lock")
}

// WorkDir returns the scratch directory for WhisperX output.
func (c *Config) WorkDir() string {
	return filepath.Join(c.Paths.CacheDir, "work")
}

// ExpandPath resolves a leading "~" to the home directory and returns an
// absolute, cleaned path. Empty input stays empty.
func ExpandPath(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if value == "~" || strings.HasPrefix(value, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		value = filepath.Join(home, strings.TrimPrefix(value, "~"))
	}
	abs, err := filepath.Abs(value)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", value, err)
	}
	return abs, nil
}

// CreateSample writes the commented sample configuration to path.
func CreateSample(path string) error {
	if err := fileutil.WriteFileAtomic(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
