package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"lyricalign/internal/config"
	"lyricalign/internal/deps"
	"lyricalign/internal/language"
	"lyricalign/internal/pipeline"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			var err error
			if target == "" {
				target, err = config.DefaultConfigPath()
			} else {
				target, err = config.ExpandPath(target)
			}
			if err != nil {
				return fmt.Errorf("resolve config path: %w", err)
			}

			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return pipeline.Wrap(pipeline.ErrValidation, "config", "init",
						fmt.Sprintf("%s already exists (use --overwrite to replace it)", target), nil)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing configuration file")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	var skipDeps bool

	cmd := &cobra.Command{
		Use:         "validate",
		Short:       "Validate the configuration and external tools",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := newStatusWriter(cmd.OutOrStdout())
			w.section("Configuration")

			cfg, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				w.line("Config", statusError, err.Error())
				return pipeline.Wrap(pipeline.ErrConfiguration, "config", "validate", "", err)
			}
			if exists {
				w.line("Config", statusOK, path)
			} else {
				w.line("Config", statusInfo, "no file at "+path+"; defaults used")
			}
			if err := cfg.EnsureDirectories(); err != nil {
				w.line("Directories", statusError, err.Error())
				return pipeline.Wrap(pipeline.ErrConfiguration, "config", "validate", "", err)
			}
			w.line("Directories", statusOK, cfg.Paths.OutputDir)
			w.line("Alignment", statusOK, fmt.Sprintf("%s, threshold %.2f, lookahead %d",
				cfg.Alignment.Policy, cfg.Alignment.Threshold, cfg.Alignment.Lookahead))

			langKind := statusOK
			if !language.Supported(cfg.Transcription.Language) {
				langKind = statusWarn
			}
			w.line("Language", langKind, language.DisplayName(cfg.Transcription.Language))
			w.line("Transcript cache", statusInfo, yesNo(cfg.Transcription.CacheEnabled))

			if !skipDeps {
				w.section("Dependencies")
				for _, status := range deps.CheckBinaries(deps.TranscriptionRequirements()) {
					kind := statusOK
					if !status.Available {
						kind = statusWarn
					}
					w.line(status.Name, kind, status.Detail)
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Configuration valid")
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipDeps, "skip-deps", false, "Do not check for uvx and ffmpeg")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			redacted := *cfg
			if redacted.Transcription.HFToken != "" {
				redacted.Transcription.HFToken = "***"
			}
			data, err := toml.Marshal(redacted)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
