package config

import "lyricalign/internal/align"

const (
	defaultConfigPath          = "~/.config/lyricalign/config.toml"
	defaultOutputDir           = "~/.local/share/lyricalign/output"
	defaultLogDir              = "~/.local/share/lyricalign/logs"
	defaultCacheDir            = "~/.cache/lyricalign"
	defaultPolicy              = "similarity"
	defaultMinLyricsSimilarity = 0.2
	defaultModel               = "small"
	defaultLanguage            = "en"
	defaultVADMethod           = "silero"
	defaultLockTimeoutSeconds  = 1800
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			CacheDir:  defaultCacheDir,
		},
		Alignment: Alignment{
			Threshold:           align.DefaultThreshold,
			Policy:              defaultPolicy,
			Lookahead:           align.MaxLookahead,
			MinLyricsSimilarity: defaultMinLyricsSimilarity,
		},
		Transcription: Transcription{
			Model:              defaultModel,
			Language:           defaultLanguage,
			VADMethod:          defaultVADMethod,
			CacheEnabled:       true,
			LockTimeoutSeconds: defaultLockTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
