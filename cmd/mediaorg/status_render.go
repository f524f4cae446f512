package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"mediaorganizer/internal/batch"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const ansiReset = "\x1b[0m"

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

var statusStyles = map[statusKind]struct{ label, color string }{
	statusInfo:  {"INFO", "\x1b[34m"},
	statusOK:    {"OK", "\x1b[32m"},
	statusWarn:  {"WARN", "\x1b[33m"},
	statusError: {"ERROR", "\x1b[31m"},
}

// statusWriter renders labelled status lines, coloured when out is a terminal.
type statusWriter struct {
	out      io.Writer
	colorize bool
}

func newStatusWriter(out io.Writer) *statusWriter {
	return &statusWriter{out: out, colorize: shouldColorize(out)}
}

func (w *statusWriter) line(label string, kind statusKind, message string) {
	fmt.Fprintln(w.out, renderStatusLine(label, kind, message, w.colorize))
}

func (w *statusWriter) section(title string) {
	heading := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(heading))
	for _, s := range []string{heading, rule} {
		fmt.Fprintln(w.out, w.paint(statusInfo, s))
	}
}

func (w *statusWriter) paint(kind statusKind, s string) string {
	if !w.colorize {
		return s
	}
	return statusStyles[kind].color + s + ansiReset
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	status := "[" + statusStyles[kind].label + "]"
	if message != "" {
		status += " " + message
	}
	line := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", status)
	if colorize {
		line = statusStyles[kind].color + line + ansiReset
	}
	return line
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func eventKind(ev batch.Event) statusKind {
	switch {
	case ev.Collides:
		return statusWarn
	case ev.Success && ev.DryRun:
		return statusInfo
	case ev.Success:
		return statusOK
	default:
		return statusError
	}
}

// eventPrinter renders one status line per batch event.
func eventPrinter(out io.Writer) batch.Progress {
	w := newStatusWriter(out)
	return func(ev batch.Event) {
		w.line(fmt.Sprintf("%d/%d %s", ev.Index+1, ev.Total, filepath.Base(ev.Path)), eventKind(ev), ev.Message)
	}
}

func renderSummary(out io.Writer, verb string, summary batch.Summary) {
	if summary.Total == 0 {
		fmt.Fprintln(out, "No selected media files")
		return
	}
	line := fmt.Sprintf("%s %d of %d files", verb, summary.Succeeded, summary.Total)
	if summary.Failed > 0 {
		line += fmt.Sprintf(", %d failed", summary.Failed)
	}
	if summary.Cancelled {
		line += ", cancelled"
	}
	fmt.Fprintln(out, line)
	if summary.BatchID != "" && len(summary.Events) > 0 && !summary.Events[0].DryRun {
		fmt.Fprintf(out, "Batch %s\n", summary.BatchID)
	}
}
