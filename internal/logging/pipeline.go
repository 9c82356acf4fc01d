package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"skellylogs/internal/relayq"
	"skellylogs/internal/severity"
)

// Options describes one pipeline configuration.
type Options struct {
	// Level is the global floor applied to the console and queue sinks.
	Level severity.Level
	// FilePath is appended to by the file sink. It is required.
	FilePath string
	// Queue attaches a queue sink when non-nil.
	Queue relayq.Handle
	// SourceFloors gates events by dotted source name before any sink.
	SourceFloors map[string]severity.Level

	Console         io.Writer
	ConsoleColor    ColorMode
	FileProcessLock bool

	// Sinks are attached after the built-in sinks.
	Sinks []Sink
}

// Pipeline owns the active sink set and routes events to it. It starts
// unconfigured; Configure attaches a fresh sink set each time it is called
// and Reset returns it to the unconfigured state.
type Pipeline struct {
	active   atomic.Pointer[sinkSet]
	timer    *ElapsedTimer
	errLog   logr.Logger
	registry *prometheus.Registry
	metrics  *Metrics

	fallbackMu sync.Mutex
	fallback   io.Writer
}

// PipelineOption customizes NewPipeline.
type PipelineOption func(*Pipeline)

// WithErrorLogger routes internal failures to l instead of stderr.
func WithErrorLogger(l logr.Logger) PipelineOption {
	return func(p *Pipeline) { p.errLog = l }
}

// WithRegistry registers the pipeline metrics on reg.
func WithRegistry(reg *prometheus.Registry) PipelineOption {
	return func(p *Pipeline) { p.registry = reg }
}

// WithFallback sets where WARNING and above go while unconfigured.
func WithFallback(w io.Writer) PipelineOption {
	return func(p *Pipeline) { p.fallback = w }
}

// NewPipeline returns an unconfigured pipeline.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		timer:    NewElapsedTimer(),
		errLog:   defaultErrorLogger(),
		fallback: os.Stderr,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.registry == nil {
		p.registry = prometheus.NewRegistry()
	}
	p.metrics = newMetrics(p.registry, p.errLog)
	return p
}

// Configure builds the file, queue and console sinks for opts and swaps them
// in as one unit. The previous set is closed once its in-flight events
// finish. On error the previous configuration stays active.
func (p *Pipeline) Configure(opts Options) error {
	file, err := NewFileSink(opts.FilePath, FileOptions{ProcessLock: opts.FileProcessLock})
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	sinks := []Sink{file}
	if opts.Queue != nil {
		queue := NewQueueSink(opts.Queue, opts.Level)
		queue.drops = p.metrics.QueueDropped
		sinks = append(sinks, queue)
	}
	sinks = append(sinks, NewConsoleSink(opts.Console, opts.Level, opts.ConsoleColor))
	sinks = append(sinks, opts.Sinks...)

	set := newSinkSet(opts.Level, NewSourceFloors(opts.SourceFloors), sinks)
	if old := p.active.Swap(set); old != nil {
		old.retire(p.report)
	}
	return nil
}

// Reset detaches and closes every sink.
func (p *Pipeline) Reset() {
	if old := p.active.Swap(nil); old != nil {
		old.retire(p.report)
	}
}

// Configured reports whether a sink set is attached.
func (p *Pipeline) Configured() bool { return p.active.Load() != nil }

// Level returns the global floor, or ALL when unconfigured.
func (p *Pipeline) Level() severity.Level {
	if set := p.active.Load(); set != nil {
		return set.global
	}
	return severity.All
}

// Sinks returns the attached sinks in dispatch order.
func (p *Pipeline) Sinks() []Sink {
	set := p.active.Load()
	if set == nil {
		return nil
	}
	return append([]Sink(nil), set.sinks...)
}

// Registry exposes the pipeline metrics.
func (p *Pipeline) Registry() *prometheus.Registry { return p.registry }

// Metrics returns the pipeline counters.
func (p *Pipeline) Metrics() *Metrics { return p.metrics }

// Enabled reports whether an event from source at lvl would reach any sink.
func (p *Pipeline) Enabled(source string, lvl severity.Level) bool {
	set := p.active.Load()
	if set == nil {
		return lvl >= severity.Warning
	}
	return set.enabled(source, lvl)
}

// Emit runs ev through the enrichment stages and hands it to every sink that
// admits it. It never returns sink failures to the caller.
func (p *Pipeline) Emit(ev *Event) {
	set := p.active.Load()
	if set == nil {
		p.lastResort(ev)
		return
	}
	if !set.enabled(ev.Name, ev.Level) {
		return
	}
	p.prepare(ev)
	p.deliver(ev, set)
}

// deliver dispatches a prepared event, following reconfiguration when set
// was retired underneath it. A reset in between sends it to the fallback.
func (p *Pipeline) deliver(ev *Event, set *sinkSet) {
	for !set.dispatch(ev, p.report) {
		set = p.active.Load()
		if set == nil {
			p.writeFallback(ev)
			return
		}
		if !set.enabled(ev.Name, ev.Level) {
			return
		}
	}
}

func (p *Pipeline) prepare(ev *Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	if ev.Process.PID == 0 {
		ev.Process = currentProcess()
	}
	p.timer.Stamp(ev)
	MaterializeException(ev)
	if ev.Message == "" {
		ev.Message = renderMessage(ev.Template, ev.Args)
	}
	p.metrics.Events.WithLabelValues(ev.Level.String()).Inc()
}

func (p *Pipeline) lastResort(ev *Event) {
	if ev.Level < severity.Warning || p.fallback == nil {
		return
	}
	p.prepare(ev)
	p.writeFallback(ev)
}

func (p *Pipeline) writeFallback(ev *Event) {
	if ev.Level < severity.Warning || p.fallback == nil {
		return
	}
	line := PlainFormatter{}.Format(ev) + "\n"
	p.fallbackMu.Lock()
	defer p.fallbackMu.Unlock()
	_, _ = io.WriteString(p.fallback, line)
}

var std atomic.Pointer[Pipeline]

func init() {
	std.Store(NewPipeline())
}

// Default returns the process-wide pipeline.
func Default() *Pipeline { return std.Load() }

// SetDefault replaces the process-wide pipeline.
func SetDefault(p *Pipeline) {
	if p != nil {
		std.Store(p)
	}
}
