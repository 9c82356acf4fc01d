package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"

	"skellylogs/internal/severity"
)

// Sink kinds attached by Configure.
const (
	SinkConsole = "console"
	SinkFile    = "file"
	SinkQueue   = "queue"
)

// FileFloor is the fixed floor of the file sink. The file is the unfiltered
// record and ignores the global floor.
const FileFloor = severity.Loop

// ErrSinkClosed is returned when writing to a closed sink.
var ErrSinkClosed = errors.New("log sink closed")

// Sink consumes enriched events.
type Sink interface {
	// Kind names the sink type, e.g. "file".
	Kind() string
	Floor() severity.Level
	Handle(ev *Event) error
	Close() error
}

// ColorMode selects console coloring.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode accepts auto, always or never; empty means auto.
func ParseColorMode(value string) (ColorMode, error) {
	switch mode := ColorMode(strings.ToLower(strings.TrimSpace(value))); mode {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorAlways, ColorNever:
		return mode, nil
	default:
		return "", fmt.Errorf("console color: unsupported value %q", value)
	}
}

// ConsoleSink writes formatted lines to a stream.
type ConsoleSink struct {
	mu        sync.Mutex
	writer    io.Writer
	floor     severity.Level
	formatter Formatter
}

// NewConsoleSink builds a console sink. In auto mode the output is colored
// only when w is a terminal.
func NewConsoleSink(w io.Writer, floor severity.Level, mode ColorMode) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	var formatter Formatter = PlainFormatter{}
	if useColor(w, mode) {
		formatter = ColorFormatter{}
	}
	return &ConsoleSink{writer: w, floor: floor, formatter: formatter}
}

func useColor(w io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (s *ConsoleSink) Kind() string          { return SinkConsole }
func (s *ConsoleSink) Floor() severity.Level { return s.floor }

func (s *ConsoleSink) Handle(ev *Event) error {
	line := s.formatter.Format(ev) + "\n"
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.writer, line)
	return err
}

// Close leaves the stream open; it belongs to the caller.
func (s *ConsoleSink) Close() error { return nil }

// FileOptions tunes a file sink.
type FileOptions struct {
	// ProcessLock serializes appends across processes sharing the file.
	ProcessLock bool
}

// FileSink appends plain lines to a file.
type FileSink struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	lock   *flock.Flock
	closed bool
}

// NewFileSink opens path for appending, creating parent directories.
func NewFileSink(path string, opts FileOptions) (*FileSink, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("file sink: path is required")
	}
	if err := ensureLogDir(trimmed); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", trimmed, err)
	}
	s := &FileSink{path: trimmed, file: file}
	if opts.ProcessLock {
		s.lock = flock.New(trimmed + ".lock")
	}
	return s, nil
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Path returns the file being appended to.
func (s *FileSink) Path() string { return s.path }

func (s *FileSink) Kind() string          { return SinkFile }
func (s *FileSink) Floor() severity.Level { return FileFloor }

func (s *FileSink) Handle(ev *Event) error {
	line := PlainFormatter{}.Format(ev) + "\n"
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSinkClosed
	}
	if s.lock != nil {
		if err := s.lock.Lock(); err != nil {
			return fmt.Errorf("lock log file: %w", err)
		}
		defer s.lock.Unlock()
	}
	_, err := s.file.WriteString(line)
	return err
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	var lockErr error
	if s.lock != nil {
		lockErr = s.lock.Close()
	}
	return errors.Join(s.file.Close(), lockErr)
}
