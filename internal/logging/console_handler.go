package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// consoleOutput is shared by every handler derived through WithAttrs or
// WithGroup so writes from all of them stay serialized.
type consoleOutput struct {
	mu     sync.Mutex
	w      io.Writer
	level  *slog.LevelVar
	source bool
}

// consoleHandler renders records as a header line followed by indented
// fields. Info and above show a curated subset; debug shows everything.
type consoleHandler struct {
	out    *consoleOutput
	preset []kv
	prefix []string
}

func newPrettyHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &consoleHandler{out: &consoleOutput{w: w, level: lvl, source: addSource}}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.out.level.Level()
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &consoleHandler{out: h.out, prefix: h.prefix}
	next.preset = append(append([]kv(nil), h.preset...), flatten(h.prefix, attrs)...)
	return next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &consoleHandler{
		out:    h.out,
		preset: h.preset,
		prefix: append(append([]string(nil), h.prefix...), name),
	}
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	if !h.Enabled(context.Background(), r.Level) {
		return nil
	}

	fields := append([]kv(nil), h.preset...)
	r.Attrs(func(a slog.Attr) bool {
		fields = append(fields, flatten(h.prefix, []slog.Attr{a})...)
		return true
	})
	fields = lastWins(fields)

	component := ""
	rest := fields[:0]
	for _, f := range fields {
		if f.key == FieldComponent {
			component = attrString(f.value)
			continue
		}
		rest = append(rest, f)
	}

	var buf bytes.Buffer
	h.writeHeader(&buf, r, component)
	if r.Level >= slog.LevelInfo {
		writeSummaryFields(&buf, rest)
	} else {
		for _, f := range rest {
			fmt.Fprintf(&buf, "    %s: %s\n", f.key, formatValue(f.value))
		}
	}

	h.out.mu.Lock()
	defer h.out.mu.Unlock()
	_, err := h.out.w.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) writeHeader(buf *bytes.Buffer, r slog.Record, component string) {
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	msg := strings.TrimSpace(r.Message)
	if msg == "" {
		msg = "(no message)"
	}

	buf.WriteString(formatTimestamp(ts))
	buf.WriteByte(' ')
	buf.WriteString(levelName(r.Level))
	if component != "" {
		fmt.Fprintf(buf, " [%s]", component)
	}
	buf.WriteString(" – ")
	buf.WriteString(msg)
	if h.out.source {
		if src := r.Source(); src != nil && src.File != "" {
			fmt.Fprintf(buf, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}
	buf.WriteByte('\n')
}

func writeSummaryFields(buf *bytes.Buffer, fields []kv) {
	shown, hidden := selectInfoFields(fields)
	for _, f := range shown {
		fmt.Fprintf(buf, "    - %s: %s\n", f.label, f.value)
	}
	switch {
	case hidden == 1:
		buf.WriteString("    + 1 more field hidden\n")
	case hidden > 1:
		fmt.Fprintf(buf, "    + %d more fields hidden\n", hidden)
	}
}

type kv struct {
	key   string
	value slog.Value
}

// flatten resolves attrs into dotted keys, expanding groups recursively.
func flatten(prefix []string, attrs []slog.Attr) []kv {
	var out []kv
	for _, a := range attrs {
		if a.Equal(slog.Attr{}) {
			continue
		}
		v := a.Value.Resolve()
		if v.Kind() == slog.KindGroup {
			inner := prefix
			if a.Key != "" {
				inner = append(append([]string(nil), prefix...), a.Key)
			}
			out = append(out, flatten(inner, v.Group())...)
			continue
		}
		key := a.Key
		if key != "" && len(prefix) > 0 {
			key = strings.Join(append(append([]string(nil), prefix...), key), ".")
		}
		out = append(out, kv{key: key, value: v})
	}
	return out
}

// lastWins drops empty keys and keeps the latest value for repeated keys at
// the position of their first occurrence.
func lastWins(fields []kv) []kv {
	index := make(map[string]int, len(fields))
	out := make([]kv, 0, len(fields))
	for _, f := range fields {
		if f.key == "" {
			continue
		}
		if i, seen := index[f.key]; seen {
			out[i].value = f.value
			continue
		}
		index[f.key] = len(out)
		out = append(out, f)
	}
	return out
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	}
	return "DEBUG"
}
