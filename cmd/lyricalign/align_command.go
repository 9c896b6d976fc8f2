package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"lyricalign/internal/align"
	"lyricalign/internal/config"
	"lyricalign/internal/logging"
	"lyricalign/internal/pipeline"
)

type alignFlags struct {
	lyrics     string
	transcript string
	audio      string
	output     string
	language   string
	threshold  float64
	policy     string
	lookahead  int
	jsonOutput bool
	watch      bool
}

// alignSummary is the --json payload for a finished run.
type alignSummary struct {
	RunID            string  `json:"run_id"`
	OutputPath       string  `json:"output_path"`
	TranscriptPath   string  `json:"transcript_path,omitempty"`
	Source           string  `json:"source"`
	Policy           string  `json:"policy"`
	Threshold        float64 `json:"threshold"`
	AlignedTokens    int     `json:"aligned_tokens"`
	OneToOne         int     `json:"one_to_one"`
	ManyToOne        int     `json:"many_to_one"`
	OneToMany        int     `json:"one_to_many"`
	LyricWords       int     `json:"lyric_words"`
	MatchedWords     int     `json:"matched_words"`
	DroppedWords     int     `json:"dropped_words"`
	SkippedWords     int     `json:"skipped_transcript_words"`
	UntimedWords     int     `json:"untimed_transcript_words"`
	Coverage         float64 `json:"coverage"`
	LyricsSimilarity float64 `json:"lyrics_similarity"`
	ElapsedMillis    int64   `json:"elapsed_ms"`
}

func newAlignCommand(ctx *commandContext) *cobra.Command {
	var flags alignFlags

	cmd := &cobra.Command{
		Use:   "align",
		Short: "Align a lyrics file to transcribed word timings",
		Long: `Align reads plain-text lyrics and word timings, either from an existing
transcript (--transcript) or by transcribing audio with WhisperX (--audio),
and writes a JSON array of {word,start,end} records, one per lyric unit.`,
		Example: `  lyricalign align --lyrics song.txt --audio song.mp3
  lyricalign align --lyrics song.txt --transcript words.json --policy anchor --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd, cfg)
			if err != nil {
				return err
			}
			runner, err := ctx.newRunner()
			if err != nil {
				return err
			}
			req := pipeline.Request{
				LyricsPath:     flags.lyrics,
				TranscriptPath: flags.transcript,
				AudioPath:      flags.audio,
				OutputPath:     flags.output,
				Language:       flags.language,
				Options:        &opts,
			}

			runOnce := func(runCtx context.Context) error {
				result, err := runner.Run(runCtx, req)
				if err != nil {
					return err
				}
				return printAlignResult(cmd, result, opts, flags.jsonOutput)
			}

			if !flags.watch {
				return runOnce(cmd.Context())
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			watched := []string{flags.lyrics}
			if flags.transcript != "" {
				watched = append(watched, flags.transcript)
			}
			if err := runOnce(cmd.Context()); err != nil {
				logging.ErrorWithContext(logger, "alignment failed", "alignment_failed", pipeline.Hint(err), logging.Error(err))
			}
			return watchFiles(cmd.Context(), watched, defaultDebounce, logger, func() {
				if err := runOnce(cmd.Context()); err != nil {
					logging.ErrorWithContext(logger, "alignment failed", "alignment_failed", pipeline.Hint(err), logging.Error(err))
				}
			})
		},
	}

	cmd.Flags().StringVarP(&flags.lyrics, "lyrics", "l", "", "Plain-text lyrics file")
	cmd.Flags().StringVarP(&flags.transcript, "transcript", "t", "", "Word timing JSON (word array or WhisperX output)")
	cmd.Flags().StringVarP(&flags.audio, "audio", "a", "", "Audio file to transcribe with WhisperX")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Aligned JSON destination (default: <output_dir>/<lyrics>.aligned.json)")
	cmd.Flags().StringVar(&flags.language, "language", "", "Spoken language for transcription (default from config)")
	cmd.Flags().Float64Var(&flags.threshold, "threshold", align.DefaultThreshold, "Minimum similarity for a fuzzy match")
	cmd.Flags().StringVar(&flags.policy, "policy", "", "Acceptance policy: similarity or anchor")
	cmd.Flags().IntVar(&flags.lookahead, "lookahead", 0, "Words merged on either side, 1-3 (1 disables merging)")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "Print a JSON summary instead of text")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "Re-run whenever the lyrics or transcript file changes")
	_ = cmd.MarkFlagRequired("lyrics")
	cmd.MarkFlagsMutuallyExclusive("transcript", "audio")
	cmd.MarkFlagsOneRequired("transcript", "audio")

	return cmd
}

// options layers explicit flags over the configured alignment settings.
func (f alignFlags) options(cmd *cobra.Command, cfg *config.Config) (align.Options, error) {
	opts := cfg.AlignOptions()
	if cmd.Flags().Changed("threshold") {
		if math.IsNaN(f.threshold) || math.IsInf(f.threshold, 0) {
			return opts, pipeline.Wrap(pipeline.ErrValidation, "flags", "threshold", "must be a finite number", nil)
		}
		opts.Threshold = f.threshold
	}
	if cmd.Flags().Changed("policy") {
		policy, err := align.ParsePolicy(f.policy)
		if err != nil {
			return opts, pipeline.Wrap(pipeline.ErrValidation, "flags", "policy", "", err)
		}
		opts.Policy = policy
	}
	if cmd.Flags().Changed("lookahead") {
		if f.lookahead < 1 || f.lookahead > align.MaxLookahead {
			return opts, pipeline.Wrap(pipeline.ErrValidation, "flags", "lookahead",
				fmt.Sprintf("must be between 1 and %d", align.MaxLookahead), nil)
		}
		opts.Lookahead = f.lookahead
	}
	return opts, nil
}

func summarize(result pipeline.Result, opts align.Options) alignSummary {
	return alignSummary{
		RunID:            result.RunID,
		OutputPath:       result.OutputPath,
		TranscriptPath:   result.TranscriptPath,
		Source:           string(result.Source),
		Policy:           opts.Policy.String(),
		Threshold:        opts.Threshold,
		AlignedTokens:    len(result.Aligned),
		OneToOne:         result.Stats.OneToOne,
		ManyToOne:        result.Stats.ManyToOne,
		OneToMany:        result.Stats.OneToMany,
		LyricWords:       result.Stats.ReferenceTotal,
		MatchedWords:     result.Stats.ReferenceMatched,
		DroppedWords:     result.Stats.DroppedReference,
		SkippedWords:     result.Stats.SkippedTranscription,
		UntimedWords:     result.UntimedWords,
		Coverage:         result.Stats.Coverage(),
		LyricsSimilarity: result.LyricsSimilarity,
		ElapsedMillis:    result.Elapsed.Milliseconds(),
	}
}

func printAlignResult(cmd *cobra.Command, result pipeline.Result, opts align.Options, asJSON bool) error {
	summary := summarize(result, opts)
	if asJSON {
		return writeJSON(cmd, summary)
	}
	writeAlignSummary(cmd.OutOrStdout(), summary)
	return nil
}

func writeAlignSummary(out io.Writer, s alignSummary) {
	w := newStatusWriter(out)
	w.section("Alignment")
	w.line("Output", statusOK, s.OutputPath)
	w.line("Timings", statusInfo, fmt.Sprintf("%s (%s)", s.Source, s.TranscriptPath))
	w.line("Policy", statusInfo, fmt.Sprintf("%s, threshold %.2f", s.Policy, s.Threshold))
	w.line("Tokens", statusInfo, fmt.Sprintf("%d (1:1 %d, N:1 %d, 1:N %d)", s.AlignedTokens, s.OneToOne, s.ManyToOne, s.OneToMany))

	coverageKind := statusOK
	if s.DroppedWords > 0 {
		coverageKind = statusWarn
	}
	w.line("Coverage", coverageKind, fmt.Sprintf("%s of %d lyric words", formatPercent(s.Coverage), s.LyricWords))
	if s.DroppedWords > 0 {
		w.line("Dropped", statusWarn, fmt.Sprintf("%d trailing lyric words have no timing", s.DroppedWords))
	}
	if s.LyricsSimilarity >= 0 {
		w.line("Lyrics match", statusInfo, fmt.Sprintf("%.2f", s.LyricsSimilarity))
	}
	if s.UntimedWords > 0 {
		w.line("Untimed words", statusInfo, strings.TrimSpace(fmt.Sprintf("%d transcript words had no timestamps", s.UntimedWords)))
	}
	w.line("Run", statusInfo, s.RunID)
}
