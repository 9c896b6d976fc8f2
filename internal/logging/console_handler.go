package logging

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// consoleHandler renders a one-line header per record:
//
//	15:04:05.000 INFO [pipeline] Run 1a2b3c4d (align) – alignment complete
//
// followed by a few labeled fields at INFO and above, or every field at DEBUG.
type consoleHandler struct {
	out    *syncWriter
	level  slog.Leveler
	source bool
	// fields holds attributes added through WithAttrs, already flattened.
	fields []field
	group  string
}

type field struct {
	key   string
	value slog.Value
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) write(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.w.Write(p)
	return err
}

func newConsoleHandler(w io.Writer, level slog.Leveler, source bool) *consoleHandler {
	return &consoleHandler{out: &syncWriter{w: w}, level: level, source: source}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	fields := slices.Clone(h.fields)
	record.Attrs(func(a slog.Attr) bool {
		fields = appendField(fields, h.group, a)
		return true
	})
	fields = collapseDuplicates(fields)

	var b strings.Builder
	h.writeHeader(&b, record, fields)
	if record.Level < slog.LevelInfo {
		for _, f := range fields {
			b.WriteString("    " + f.key + ": " + renderValue(f.value, true) + "\n")
		}
	} else {
		shown, hidden := pickFields(fields, maxInfoFields)
		for _, f := range shown {
			b.WriteString("    - " + label(f.key) + ": " + consoleValue(f.key, f.value) + "\n")
		}
		switch {
		case hidden == 1:
			b.WriteString("    + 1 more field hidden\n")
		case hidden > 1:
			b.WriteString("    + " + strconv.Itoa(hidden) + " more fields hidden\n")
		}
	}
	return h.out.write([]byte(b.String()))
}

func (h *consoleHandler) writeHeader(b *strings.Builder, record slog.Record, fields []field) {
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	b.WriteString(clockStamp(ts))
	b.WriteString(" " + levelName(record.Level))
	if component := lookupField(fields, FieldComponent); component != "" {
		b.WriteString(" [" + component + "]")
	}
	if subject := composeSubject(lookupField(fields, FieldRunID), lookupField(fields, FieldStage)); subject != "" {
		b.WriteString(" " + subject)
	}
	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	b.WriteString(" – " + msg)
	if h.source {
		if src := record.Source(); src != nil && src.File != "" {
			b.WriteString(" (" + filepath.Base(src.File) + ":" + strconv.Itoa(src.Line) + ")")
		}
	}
	b.WriteByte('\n')
}

// composeSubject renders "Run 1a2b3c4d (align)" from the correlation fields.
func composeSubject(runID, stage string) string {
	runID = strings.TrimSpace(runID)
	stage = strings.TrimSpace(stage)
	if len(runID) > 8 {
		runID = runID[:8]
	}
	switch {
	case runID != "" && stage != "":
		return "Run " + runID + " (" + stage + ")"
	case runID != "":
		return "Run " + runID
	default:
		return stage
	}
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	next.fields = slices.Clone(h.fields)
	for _, a := range attrs {
		next.fields = appendField(next.fields, h.group, a)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = joinKey(h.group, name)
	return &next
}

// appendField flattens groups into dotted keys.
func appendField(dst []field, prefix string, a slog.Attr) []field {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}
	key := joinKey(prefix, a.Key)
	if a.Value.Kind() == slog.KindGroup {
		for _, child := range a.Value.Group() {
			dst = appendField(dst, key, child)
		}
		return dst
	}
	if key == "" {
		return dst
	}
	return append(dst, field{key: key, value: a.Value})
}

func joinKey(prefix, key string) string {
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	default:
		return prefix + "." + key
	}
}

// collapseDuplicates keeps each key at its first position with its last value.
func collapseDuplicates(fields []field) []field {
	index := make(map[string]int, len(fields))
	out := make([]field, 0, len(fields))
	for _, f := range fields {
		if i, ok := index[f.key]; ok {
			out[i].value = f.value
			continue
		}
		index[f.key] = len(out)
		out = append(out, f)
	}
	return out
}

func lookupField(fields []field, key string) string {
	for _, f := range fields {
		if f.key == key {
			return renderValue(f.value, false)
		}
	}
	return ""
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
