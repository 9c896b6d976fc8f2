package logging

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"
)

// Console lines carry only the wall clock; a run rarely crosses midnight and
// the log file keeps full timestamps.
func clockStamp(t time.Time) string {
	return t.Local().Format("15:04:05.000")
}

// renderValue formats v for the console. quote wraps values containing
// spaces, '=' or '"' so debug dumps stay parseable.
func renderValue(v slog.Value, quote bool) string {
	v = v.Resolve()
	var s string
	switch v.Kind() {
	case slog.KindTime:
		s = v.Time().Local().Format(time.DateTime)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	default:
		s = v.String()
	}
	if quote {
		return quoteValue(s)
	}
	return s
}

func quoteValue(s string) string {
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.Quote(s)
	}
	return s
}

func humanDuration(d time.Duration) string {
	step := time.Second
	switch {
	case d < time.Second:
		step = time.Millisecond
	case d < time.Minute:
		step = 100 * time.Millisecond
	}
	return d.Round(step).String()
}

func percentString(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// shortFloat keeps at most three decimals without trailing zeros.
func shortFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
