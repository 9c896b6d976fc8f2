package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lyricalign/internal/align"
	"lyricalign/internal/pipeline"
	"lyricalign/internal/transcript"
)

func newShowCommand() *cobra.Command {
	var asJSON bool
	var limit int

	cmd := &cobra.Command{
		Use:         "show FILE",
		Short:       "Display an aligned lyrics file",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			aligned, err := transcript.ReadAligned(args[0])
			if err != nil {
				return pipeline.Wrap(pipeline.ErrValidation, "show", "read", args[0], err)
			}
			if limit > 0 && limit < len(aligned) {
				aligned = aligned[:limit]
			}
			if asJSON {
				if aligned == nil {
					aligned = []align.AlignedToken{}
				}
				return writeJSON(cmd, aligned)
			}
			out := cmd.OutOrStdout()
			if len(aligned) == 0 {
				fmt.Fprintln(out, "No aligned lyrics")
				return nil
			}
			fmt.Fprintln(out, alignedTable(aligned))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the tokens as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the first N tokens")
	return cmd
}

func alignedTable(aligned []align.AlignedToken) string {
	rows := make([][]string, 0, len(aligned))
	inverted := 0
	for i, token := range aligned {
		length := formatClock(token.End - token.Start)
		if token.End < token.Start {
			inverted++
			length += " !"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			token.Text,
			formatClock(token.Start),
			formatClock(token.End),
			length,
		})
	}
	footer := []string{"", fmt.Sprintf("%d tokens", len(aligned)), formatClock(aligned[0].Start), formatClock(aligned[len(aligned)-1].End), ""}
	if inverted > 0 {
		footer[4] = fmt.Sprintf("%d inverted", inverted)
	}
	return tableSpec{
		headers:      []string{"#", "Lyric", "Start", "End", "Length"},
		rows:         rows,
		footer:       footer,
		rightAligned: []int{0, 2, 3, 4},
	}.render()
}
