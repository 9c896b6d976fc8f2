package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lyricalign/internal/pipeline"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the transcript cache",
	}
	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

type cacheEntryView struct {
	AudioHash  string    `json:"audio_hash"`
	AudioPath  string    `json:"audio_path"`
	Model      string    `json:"model"`
	Language   string    `json:"language"`
	Words      int       `json:"words"`
	Untimed    int       `json:"untimed_words"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached transcriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCache()
			if err != nil {
				return err
			}
			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			views := make([]cacheEntryView, 0, len(entries))
			for _, entry := range entries {
				views = append(views, cacheEntryView{
					AudioHash:  entry.Key.AudioHash,
					AudioPath:  entry.AudioPath,
					Model:      entry.Key.Model,
					Language:   entry.Key.Language,
					Words:      entry.WordCount,
					Untimed:    entry.UntimedWords,
					CreatedAt:  entry.CreatedAt,
					LastUsedAt: entry.LastUsedAt,
				})
			}
			if asJSON {
				return writeJSON(cmd, views)
			}
			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintln(out, "Transcript cache is empty")
				fmt.Fprintf(out, "Database: %s\n", store.Path())
				return nil
			}
			now := time.Now()
			rows := make([][]string, 0, len(views))
			for _, view := range views {
				hash := view.AudioHash
				if len(hash) > 12 {
					hash = hash[:12]
				}
				rows = append(rows, []string{
					hash,
					view.Model,
					view.Language,
					strconv.Itoa(view.Words),
					formatAge(now, view.LastUsedAt),
					view.AudioPath,
				})
			}
			fmt.Fprintln(out, tableSpec{
				headers:      []string{"Hash", "Model", "Lang", "Words", "Last Used", "Audio"},
				rows:         rows,
				rightAligned: []int{3},
			}.render())
			fmt.Fprintf(out, "Database: %s\n", store.Path())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print entries as JSON")
	return cmd
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	var olderThan string
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove transcriptions not used recently",
		RunE: func(cmd *cobra.Command, args []string) error {
			age, err := parseAge(olderThan)
			if err != nil {
				return pipeline.Wrap(pipeline.ErrValidation, "cache", "prune", "", err)
			}
			store, err := ctx.openCache()
			if err != nil {
				return err
			}
			removed, err := store.Prune(cmd.Context(), time.Now().Add(-age))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached transcription(s) unused for %s\n", removed, olderThan)
			return nil
		},
	}
	cmd.Flags().StringVar(&olderThan, "older-than", "30d", "Age threshold (Go duration or days, e.g. 72h or 30d)")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached transcription",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCache()
			if err != nil {
				return err
			}
			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached transcription(s)\n", removed)
			return nil
		},
	}
}

// parseAge accepts Go durations plus a whole-day "Nd" form.
func parseAge(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid age %q", value)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid age %q: %w", value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid age %q: negative", value)
	}
	return d, nil
}
