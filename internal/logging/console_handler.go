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

const consoleTimeLayout = "15:04:05.000"

// consoleHandler renders one header line per record followed by indented
// fields:
//
//	12:04:05.123 INFO  [captions/transcribe] transcription finished (stable-ts:base run 1a2b3c4d)
//	    language=en segments=12 duration_seconds="1m 03s"
//
// Warnings put error_hint and impact on their own lines. Debug records list
// every field on its own line unformatted.
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     slog.Leveler
	attrs     []slog.Attr
	groups    []string
	addSource bool
}

func newConsoleHandler(w io.Writer, level slog.Leveler, addSource bool) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: level, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make([]kv, 0, len(h.attrs)+record.NumAttrs())
	flattenAttrs(&fields, h.groups, h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&fields, h.groups, attr)
		return true
	})
	var head runHeader
	fields = head.take(dedupeKVsByKey(fields))

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	message := strings.TrimSpace(record.Message)
	if message == "" {
		message = "(no message)"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %-5s ", ts.In(time.Local).Format(consoleTimeLayout), levelLabel(record.Level))
	if scope := head.scope(); scope != "" {
		buf.WriteString("[" + scope + "] ")
	}
	buf.WriteString(message)
	if tag := head.tag(); tag != "" {
		buf.WriteString(" (" + tag + ")")
	}
	if h.addSource {
		if src := record.Source(); src != nil && src.File != "" {
			fmt.Fprintf(&buf, " @%s:%d", filepath.Base(src.File), src.Line)
		}
	}
	buf.WriteByte('\n')
	if record.Level < slog.LevelInfo {
		writeDebugFields(&buf, fields)
	} else {
		writeFields(&buf, fields)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

// runHeader holds the attributes lifted out of the field list into the
// header line.
type runHeader struct {
	component string
	stage     string
	runID     string
	engine    string
	model     string
}

// take moves header attributes into h and returns the remaining fields.
func (h *runHeader) take(fields []kv) []kv {
	rest := fields[:0]
	for _, f := range fields {
		var dst *string
		switch f.key {
		case FieldComponent:
			dst = &h.component
		case FieldStage:
			dst = &h.stage
		case FieldRunID:
			dst = &h.runID
		case FieldEngine:
			dst = &h.engine
		case FieldModel:
			dst = &h.model
		default:
			rest = append(rest, f)
			continue
		}
		*dst = strings.TrimSpace(attrString(f.value))
	}
	return rest
}

func (h runHeader) scope() string {
	switch {
	case h.component != "" && h.stage != "":
		return h.component + "/" + h.stage
	case h.component != "":
		return h.component
	default:
		return h.stage
	}
}

func (h runHeader) tag() string {
	var parts []string
	switch {
	case h.engine != "" && h.model != "":
		parts = append(parts, h.engine+":"+h.model)
	case h.engine != "":
		parts = append(parts, h.engine)
	case h.model != "":
		parts = append(parts, "model "+h.model)
	}
	if h.runID != "" {
		id := h.runID
		if len(id) > 8 {
			id = id[:8]
		}
		parts = append(parts, "run "+id)
	}
	return strings.Join(parts, " ")
}

// writeFields puts ordinary fields on one key=value line and gives hint and
// impact lines of their own.
func writeFields(buf *bytes.Buffer, fields []kv) {
	inline := make([]string, 0, len(fields))
	var hint, impact string
	for _, f := range fields {
		switch f.key {
		case FieldErrorHint:
			hint = attrString(f.value)
		case FieldImpact:
			impact = attrString(f.value)
		default:
			inline = append(inline, f.key+"="+quoteIfNeeded(formatValueForKey(f.key, f.value)))
		}
	}
	if len(inline) > 0 {
		buf.WriteString("    ")
		buf.WriteString(strings.Join(inline, " "))
		buf.WriteByte('\n')
	}
	if hint != "" {
		buf.WriteString("    hint: " + hint + "\n")
	}
	if impact != "" {
		buf.WriteString("    impact: " + impact + "\n")
	}
}

func writeDebugFields(buf *bytes.Buffer, fields []kv) {
	for _, f := range fields {
		buf.WriteString("    ")
		buf.WriteString(f.key)
		buf.WriteByte('=')
		buf.WriteString(formatValue(f.value))
		buf.WriteByte('\n')
	}
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	next.attrs = append(next.attrs, attrs...)
	return next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	next := h.clone()
	next.groups = append(next.groups, name)
	return next
}

func (h *consoleHandler) clone() *consoleHandler {
	next := *h
	next.attrs = append([]slog.Attr(nil), h.attrs...)
	next.groups = append([]string(nil), h.groups...)
	return &next
}

type kv struct {
	key   string
	value slog.Value
}

// dedupeKVsByKey keeps the first position of each key and the last value.
func dedupeKVsByKey(fields []kv) []kv {
	index := make(map[string]int, len(fields))
	out := make([]kv, 0, len(fields))
	for _, f := range fields {
		if f.key == "" {
			continue
		}
		if i, ok := index[f.key]; ok {
			out[i].value = f.value
			continue
		}
		index[f.key] = len(out)
		out = append(out, f)
	}
	return out
}

func flattenAttrs(dst *[]kv, prefix []string, attrs []slog.Attr) {
	for _, attr := range attrs {
		flattenAttr(dst, prefix, attr)
	}
}

func flattenAttr(dst *[]kv, prefix []string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		next := prefix
		if attr.Key != "" {
			next = append(append([]string(nil), prefix...), attr.Key)
		}
		flattenAttrs(dst, next, attr.Value.Group())
		return
	}
	key := attr.Key
	if len(prefix) > 0 {
		key = strings.Join(prefix, ".") + "." + key
	}
	*dst = append(*dst, kv{key: key, value: attr.Value})
}

func levelLabel(level slog.Level) string {
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
