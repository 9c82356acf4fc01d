package logging

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"skellylogs/internal/severity"
)

// NewLogr adapts l to logr. WithName extends the dotted source name and
// verbosity maps V(0)=INFO, V(1)=DEBUG, V(2)=TRACE and anything higher to
// LOOP.
func NewLogr(l *Logger) logr.Logger {
	return logr.New(&logrSink{logger: l})
}

type logrSink struct {
	logger *Logger
	values []any
	depth  int
}

var _ logr.CallDepthLogSink = (*logrSink)(nil)

func verbosity(v int) severity.Level {
	switch {
	case v <= 0:
		return severity.Info
	case v == 1:
		return severity.Debug
	case v == 2:
		return severity.Trace
	default:
		return severity.Loop
	}
}

func (s *logrSink) Init(info logr.RuntimeInfo) { s.depth = info.CallDepth }

func (s *logrSink) Enabled(level int) bool { return s.logger.Enabled(verbosity(level)) }

func (s *logrSink) Info(level int, msg string, keysAndValues ...any) {
	s.emit(verbosity(level), nil, msg, keysAndValues)
}

func (s *logrSink) Error(err error, msg string, keysAndValues ...any) {
	s.emit(severity.Error, err, msg, keysAndValues)
}

func (s *logrSink) WithValues(keysAndValues ...any) logr.LogSink {
	clone := *s
	clone.values = append(append([]any(nil), s.values...), keysAndValues...)
	return &clone
}

func (s *logrSink) WithName(name string) logr.LogSink {
	clone := *s
	clone.logger = s.logger.Named(name)
	return &clone
}

func (s *logrSink) WithCallDepth(depth int) logr.LogSink {
	clone := *s
	clone.depth += depth
	return &clone
}

func (s *logrSink) emit(lvl severity.Level, err error, msg string, keysAndValues []any) {
	if !s.logger.Enabled(lvl) {
		return
	}
	var b strings.Builder
	b.WriteString(msg)
	writePairs(&b, s.values)
	writePairs(&b, keysAndValues)

	ev := &Event{
		Name:     s.logger.name,
		Template: b.String(),
		Level:    lvl,
		Origin:   callerOrigin(2 + s.depth),
		Time:     time.Now(),
		Process:  currentProcess(),
	}
	if err != nil {
		ev.Exception = &Exception{Err: err, Stack: callerStack(2 + s.depth)}
	}
	s.logger.p.Emit(ev)
}

func writePairs(b *strings.Builder, keysAndValues []any) {
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		value := "<missing>"
		if i+1 < len(keysAndValues) {
			value = formatAny(keysAndValues[i+1])
		}
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(value)
	}
}
