package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const statusLabelWidth = 18

// statusWriter prints aligned "label: [KIND] message" lines, colored only
// when the destination is a terminal.
type statusWriter struct {
	out      io.Writer
	colorize bool
}

func newStatusWriter(out io.Writer) statusWriter {
	return statusWriter{out: out, colorize: shouldColorize(out)}
}

func (w statusWriter) line(label string, kind statusKind, message string) {
	fmt.Fprintln(w.out, renderStatusLine(label, kind, message, w.colorize))
}

func (w statusWriter) section(title string) {
	heading := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	if w.colorize {
		heading = ansiBlue + heading + ansiReset
	}
	fmt.Fprintln(w.out, heading)
}

// statusStyles maps each kind to its bracketed tag and terminal color.
var statusStyles = map[statusKind]struct{ tag, color string }{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"ERROR", ansiRed},
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style, ok := statusStyles[kind]
	if !ok {
		style = statusStyles[statusInfo]
	}
	var b strings.Builder
	fmt.Fprintf(&b, "  %-*s [%s]", statusLabelWidth, label+":", style.tag)
	if message != "" {
		b.WriteString(" " + message)
	}
	if !colorize {
		return b.String()
	}
	return style.color + b.String() + ansiReset
}

// shouldColorize honors NO_COLOR and only colors real terminals.
func shouldColorize(writer io.Writer) bool {
	if _, disabled := os.LookupEnv("NO_COLOR"); disabled {
		return false
	}
	file, ok := writer.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
