package logging

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const maxInfoFields = 8

// fieldRank lists the keys surfaced first on INFO lines, in order.
var fieldRank = rankKeys(
	FieldEventType,
	"lyrics_path",
	"transcript_path",
	"audio_path",
	"output_path",
	"policy",
	"threshold",
	"aligned_tokens",
	"coverage_percent",
	"dropped_reference",
	"skipped_transcription",
	"lyrics_similarity",
	"cache_hit",
	FieldErrorHint,
	FieldImpact,
	"error",
)

func rankKeys(keys ...string) map[string]int {
	ranks := make(map[string]int, len(keys))
	for i, key := range keys {
		ranks[key] = i
	}
	return ranks
}

func rankOf(key string) int {
	if r, ok := fieldRank[key]; ok {
		return r
	}
	return len(fieldRank)
}

// pickFields drops the header fields, orders the rest by rank and keeps at
// most limit of them. It returns the number left out.
func pickFields(fields []field, limit int) ([]field, int) {
	visible := make([]field, 0, len(fields))
	for _, f := range fields {
		switch f.key {
		case FieldComponent, FieldRunID, FieldStage:
			continue
		}
		visible = append(visible, f)
	}
	slices.SortStableFunc(visible, func(a, b field) int {
		return cmp.Compare(rankOf(a.key), rankOf(b.key))
	})
	if limit > 0 && len(visible) > limit {
		return visible[:limit], len(visible) - limit
	}
	return visible, 0
}

func label(key string) string {
	switch key {
	case FieldEventType:
		return "Event"
	case FieldErrorHint:
		return "Hint"
	case "coverage_percent":
		return "Coverage"
	}
	words := strings.Join(strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '.' }), " ")
	return cases.Title(language.English, cases.NoLower).String(words)
}

func consoleValue(key string, v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindBool:
		if v.Bool() {
			return "yes"
		}
		return "no"
	case slog.KindDuration:
		return humanDuration(v.Duration())
	case slog.KindFloat64:
		if strings.HasSuffix(key, "_percent") {
			return percentString(v.Float64())
		}
		return shortFloat(v.Float64())
	}
	return renderValue(v, false)
}
