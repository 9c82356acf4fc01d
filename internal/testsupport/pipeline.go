package testsupport

import (
	"bytes"
	"sync"
	"testing"

	"github.com/go-logr/logr/funcr"

	"skellylogs/internal/config"
	"skellylogs/internal/logging"
	"skellylogs/internal/relayq"
)

// ErrorLog collects the internal error reports of a pipeline.
type ErrorLog struct {
	mu    sync.Mutex
	lines []string
}

// Lines returns a copy of the collected reports.
func (e *ErrorLog) Lines() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.lines...)
}

func (e *ErrorLog) add(prefix, args string) {
	e.mu.Lock()
	e.lines = append(e.lines, prefix+args)
	e.mu.Unlock()
}

// Harness bundles a pipeline with the pieces a test inspects.
type Harness struct {
	Pipeline *logging.Pipeline
	Manager  *relayq.Manager
	Console  *SafeBuffer
	Errors   *ErrorLog
}

// NewHarness builds an unconfigured pipeline with captured console output,
// a private owning relay manager, and recorded internal errors. The pipeline
// is reset when the test ends.
func NewHarness(t testing.TB) *Harness {
	t.Helper()

	errs := &ErrorLog{}
	h := &Harness{
		Manager: relayq.NewManager(true),
		Console: &SafeBuffer{},
		Errors:  errs,
	}
	h.Pipeline = logging.NewPipeline(
		logging.WithErrorLogger(funcr.New(errs.add, funcr.Options{})),
		logging.WithFallback(h.Console),
	)
	t.Cleanup(h.Pipeline.Reset)
	return h
}

// MustSetup configures the harness pipeline from cfg.
func (h *Harness) MustSetup(t testing.TB, cfg *config.Config) {
	t.Helper()

	ok, err := logging.Setup(h.Pipeline, cfg, logging.SetupOptions{
		Manager: h.Manager,
		Console: h.Console,
	})
	if err != nil {
		t.Fatalf("setup logging: %v", err)
	}
	if !ok {
		t.Fatal("setup logging: pipeline was not configured")
	}
}

// Queue returns the relay queue created by setup.
func (h *Harness) Queue(t testing.TB) *relayq.Queue {
	t.Helper()

	q, err := h.Manager.Queue()
	if err != nil {
		t.Fatalf("relay queue: %v", err)
	}
	return q
}

// FilePath returns the path of the attached file sink.
func (h *Harness) FilePath(t testing.TB) string {
	t.Helper()

	for _, sink := range h.Pipeline.Sinks() {
		if fs, ok := sink.(*logging.FileSink); ok {
			return fs.Path()
		}
	}
	t.Fatal("no file sink attached")
	return ""
}

// SafeBuffer is a bytes.Buffer safe for concurrent writers.
type SafeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
