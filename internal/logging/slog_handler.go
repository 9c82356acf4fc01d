package logging

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"skellylogs/internal/severity"
)

// slogHandler feeds slog records into a pipeline. Attributes are appended to
// the message as key=value pairs; an error under "err" or "error" becomes
// the event exception.
type slogHandler struct {
	logger *Logger
	attrs  []slog.Attr
	groups []string
}

// NewSlogHandler returns an slog.Handler emitting through l.
func NewSlogHandler(l *Logger) slog.Handler {
	return &slogHandler{logger: l}
}

// NewSlogLogger is shorthand for slog.New(NewSlogHandler(l)).
func NewSlogLogger(l *Logger) *slog.Logger {
	return slog.New(NewSlogHandler(l))
}

func (h *slogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.Enabled(severity.FromSlog(level))
}

func (h *slogHandler) Handle(_ context.Context, record slog.Record) error {
	lvl := severity.FromSlog(record.Level)
	if !h.logger.Enabled(lvl) {
		return nil
	}

	kvs := make([]kv, 0, record.NumAttrs()+len(h.attrs))
	flattenAttrs(&kvs, h.groups, h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&kvs, h.groups, attr)
		return true
	})

	var exc error
	var msg strings.Builder
	msg.WriteString(strings.TrimSpace(record.Message))
	for _, kv := range kvs {
		if kv.key == "" {
			continue
		}
		if exc == nil && (kv.key == "err" || kv.key == "error") {
			if err, ok := errorFromValue(kv.value); ok {
				exc = err
				continue
			}
		}
		msg.WriteByte(' ')
		msg.WriteString(kv.key)
		msg.WriteByte('=')
		msg.WriteString(formatValue(kv.value))
	}

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	ev := &Event{
		Name:     h.logger.name,
		Template: msg.String(),
		Level:    lvl,
		Origin:   originFromPC(record.PC),
		Time:     ts,
		Process:  currentProcess(),
	}
	if exc != nil {
		ev.Exception = &Exception{Err: exc}
		if record.PC != 0 {
			ev.Exception.Stack = []uintptr{record.PC}
		}
	}
	h.logger.p.Emit(ev)
	return nil
}

func (h *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.attrs = append(clone.attrs, attrs...)
	return clone
}

func (h *slogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *slogHandler) clone() *slogHandler {
	clone := &slogHandler{logger: h.logger}
	if len(h.attrs) > 0 {
		clone.attrs = make([]slog.Attr, len(h.attrs))
		copy(clone.attrs, h.attrs)
	}
	if len(h.groups) > 0 {
		clone.groups = make([]string, len(h.groups))
		copy(clone.groups, h.groups)
	}
	return clone
}

type kv struct {
	key   string
	value slog.Value
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
	switch attr.Value.Kind() {
	case slog.KindGroup:
		nextPrefix := prefix
		if attr.Key != "" {
			nextPrefix = appendPrefix(prefix, attr.Key)
		}
		flattenAttrs(dst, nextPrefix, attr.Value.Group())
	default:
		key := attr.Key
		if len(prefix) > 0 {
			if key != "" {
				key = strings.Join(append(prefix, key), ".")
			} else {
				key = strings.Join(prefix, ".")
			}
		}
		*dst = append(*dst, kv{key: key, value: attr.Value})
	}
}

func appendPrefix(prefix []string, value string) []string {
	out := make([]string, len(prefix)+1)
	copy(out, prefix)
	out[len(prefix)] = value
	return out
}

// errorFromValue extracts an error carried by an slog value.
func errorFromValue(v slog.Value) (error, bool) {
	if v.Kind() != slog.KindAny {
		return nil, false
	}
	err, ok := v.Any().(error)
	return err, ok && err != nil
}
