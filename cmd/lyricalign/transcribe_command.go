package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lyricalign/internal/language"
	"lyricalign/internal/logging"
	"lyricalign/internal/pipeline"
	"lyricalign/internal/transcript"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var audioPath string
	var outputPath string
	var lang string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "transcribe",
		Short: "Transcribe audio to a word timing JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.newRunner()
			if err != nil {
				return err
			}
			runCtx := logging.WithRunID(cmd.Context(), newRunID())
			result, err := runner.Transcribe(runCtx, audioPath, lang)
			if err != nil {
				return err
			}

			target := result.WordsPath
			if strings.TrimSpace(outputPath) != "" {
				target = outputPath
				if err := transcript.WriteTokens(target, result.Document.Tokens); err != nil {
					return pipeline.Wrap(nil, "transcribe", "write output", "", err)
				}
			}

			if asJSON {
				return writeJSON(cmd, map[string]any{
					"output_path":   target,
					"source":        string(result.Source),
					"language":      result.Language,
					"words":         len(result.Document.Tokens),
					"untimed_words": result.Document.Skipped,
				})
			}
			w := newStatusWriter(cmd.OutOrStdout())
			w.section("Transcription")
			w.line("Output", statusOK, target)
			w.line("Source", statusInfo, string(result.Source))
			w.line("Language", statusInfo, language.DisplayName(result.Language))
			w.line("Words", statusInfo, fmt.Sprintf("%d timed, %d untimed", len(result.Document.Tokens), result.Document.Skipped))
			return nil
		},
	}

	cmd.Flags().StringVarP(&audioPath, "audio", "a", "", "Audio file to transcribe")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Word array destination (default: <output_dir>/<audio>.words.json)")
	cmd.Flags().StringVar(&lang, "language", "", "Spoken language (code or English name; default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print a JSON summary instead of text")
	_ = cmd.MarkFlagRequired("audio")
	return cmd
}
