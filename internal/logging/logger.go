package logging

import (
	"fmt"
	"strings"
	"time"

	"skellylogs/internal/severity"
)

// Logger raises events for one source name. The zero value is not usable;
// obtain loggers from a Pipeline.
type Logger struct {
	p     *Pipeline
	name  string
	stack bool
}

// LevelFunc emits at a fixed severity.
type LevelFunc func(template string, args ...any)

// Logger returns a logger for the dotted source name.
func (p *Pipeline) Logger(name string) *Logger {
	return &Logger{p: p, name: strings.Trim(strings.TrimSpace(name), ".")}
}

// Named returns a logger for a child source, joined with a dot.
func (l *Logger) Named(child string) *Logger {
	child = strings.Trim(strings.TrimSpace(child), ".")
	switch {
	case child == "":
		return l
	case l.name == "":
		return &Logger{p: l.p, name: child, stack: l.stack}
	default:
		return &Logger{p: l.p, name: l.name + "." + child, stack: l.stack}
	}
}

// WithStack returns a logger that attaches the call stack to every event.
func (l *Logger) WithStack() *Logger {
	return &Logger{p: l.p, name: l.name, stack: true}
}

// Name returns the source name.
func (l *Logger) Name() string { return l.name }

// Pipeline returns the pipeline the logger emits into.
func (l *Logger) Pipeline() *Pipeline { return l.p }

// Enabled reports whether lvl would reach at least one sink.
func (l *Logger) Enabled(lvl severity.Level) bool { return l.p.Enabled(l.name, lvl) }

func (l *Logger) Loop(template string, args ...any) {
	l.emit(severity.Loop, nil, template, args)
}

func (l *Logger) Trace(template string, args ...any) {
	l.emit(severity.Trace, nil, template, args)
}

func (l *Logger) Debug(template string, args ...any) {
	l.emit(severity.Debug, nil, template, args)
}

func (l *Logger) Info(template string, args ...any) {
	l.emit(severity.Info, nil, template, args)
}

func (l *Logger) Success(template string, args ...any) {
	l.emit(severity.Success, nil, template, args)
}

func (l *Logger) API(template string, args ...any) {
	l.emit(severity.API, nil, template, args)
}

func (l *Logger) Warn(template string, args ...any) {
	l.emit(severity.Warning, nil, template, args)
}

func (l *Logger) Error(template string, args ...any) {
	l.emit(severity.Error, nil, template, args)
}

func (l *Logger) Critical(template string, args ...any) {
	l.emit(severity.Critical, nil, template, args)
}

// Exception logs err at ERROR with its stack.
func (l *Logger) Exception(err error, template string, args ...any) {
	l.emit(severity.Error, err, template, args)
}

// Log emits at an arbitrary rank.
func (l *Logger) Log(lvl severity.Level, template string, args ...any) {
	l.emit(lvl, nil, template, args)
}

// LogErr emits at lvl with err attached.
func (l *Logger) LogErr(lvl severity.Level, err error, template string, args ...any) {
	l.emit(lvl, err, template, args)
}

// LogNamed emits at the level registered under name. An unknown name is the
// only failure reported to the caller.
func (l *Logger) LogNamed(name string, template string, args ...any) error {
	rank, err := severity.RankOf(name)
	if err != nil {
		return fmt.Errorf("log %q: %w", template, err)
	}
	l.emit(severity.Level(rank), nil, template, args)
	return nil
}

// At returns an emitter bound to lvl. The guard and the event use the same
// rank.
func (l *Logger) At(lvl severity.Level) LevelFunc {
	return func(template string, args ...any) {
		l.emit(lvl, nil, template, args)
	}
}

// emit must be called directly from the exported method so the origin skip
// count stays fixed.
func (l *Logger) emit(lvl severity.Level, err error, template string, args []any) {
	if !l.p.Enabled(l.name, lvl) {
		return
	}
	ev := &Event{
		Name:     l.name,
		Template: template,
		Args:     args,
		Level:    lvl,
		Origin:   callerOrigin(2),
		Time:     time.Now(),
		Process:  currentProcess(),
	}
	if err != nil {
		ev.Exception = &Exception{Err: err, Stack: callerStack(2)}
	}
	if l.stack {
		ev.StackInfo = formatFrames("Stack (most recent call first):", callerStack(2))
	}
	l.p.Emit(ev)
}
