package relayq

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"skellylogs/internal/record"
)

const (
	EnvParentPID = "SKELLYLOGS_PARENT_PID"
	EnvQueueID   = "SKELLYLOGS_QUEUE_ID"
	EnvRelayFD   = "SKELLYLOGS_RELAY_FD"

	// RelayFD is the descriptor a worker inherits its relay pipe on when the
	// pipe is passed as the first exec.Cmd ExtraFiles entry.
	RelayFD = 3

	maxLineBytes = 4 << 20
)

// IsWorker reports whether this process was started as a worker of another
// skellylogs process.
func IsWorker() bool {
	raw := strings.TrimSpace(os.Getenv(EnvParentPID))
	if raw == "" {
		return false
	}
	pid, err := strconv.Atoi(raw)
	return err == nil && pid != os.Getpid()
}

// WorkerEnv returns the environment entries a child needs to forward records
// to h over a pipe inherited on RelayFD.
func WorkerEnv(h Handle) []string {
	return []string{
		EnvParentPID + "=" + strconv.Itoa(os.Getpid()),
		EnvQueueID + "=" + h.ID(),
		EnvRelayFD + "=" + strconv.Itoa(RelayFD),
	}
}

// ConnectWorker opens the inherited relay pipe and returns a forwarding
// handle carrying the parent queue identity.
func ConnectWorker(capacity int) (*LineWriter, error) {
	if !IsWorker() {
		return nil, errors.New("connect relay: not running as a worker")
	}
	fd, err := strconv.Atoi(strings.TrimSpace(os.Getenv(EnvRelayFD)))
	if err != nil {
		return nil, fmt.Errorf("connect relay: %s: %w", EnvRelayFD, err)
	}
	f := os.NewFile(uintptr(fd), "skellylogs-relay")
	if f == nil {
		return nil, fmt.Errorf("connect relay: invalid descriptor %d", fd)
	}
	w := NewLineWriter(f, capacity)
	if id := strings.TrimSpace(os.Getenv(EnvQueueID)); id != "" {
		w.id = id
	}
	return w, nil
}

// LineWriter is a Handle that encodes records as JSON lines onto a writer
// from a background goroutine. Pushes never wait for the writer.
type LineWriter struct {
	id     string
	lines  chan []byte
	done   chan struct{}
	closer io.Closer
	once   sync.Once
	mu     sync.Mutex
	closed bool
	err    error
}

// NewLineWriter starts forwarding to w with room for capacity pending lines.
func NewLineWriter(w io.Writer, capacity int) *LineWriter {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	lw := &LineWriter{
		id:    uuid.NewString(),
		lines: make(chan []byte, capacity),
		done:  make(chan struct{}),
	}
	if c, ok := w.(io.Closer); ok {
		lw.closer = c
	}
	go lw.run(bufio.NewWriter(w))
	return lw
}

func (w *LineWriter) ID() string { return w.id }

// TryPush encodes r and hands it to the writer goroutine.
func (w *LineWriter) TryPush(r record.FlatRecord) error {
	data, err := r.Encode()
	if err != nil {
		return err
	}
	data = append(data, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	select {
	case w.lines <- data:
		return nil
	default:
		return ErrFull
	}
}

// Close flushes pending lines and closes the underlying writer if it is a
// Closer.
func (w *LineWriter) Close() error {
	w.once.Do(func() {
		w.mu.Lock()
		w.closed = true
		close(w.lines)
		w.mu.Unlock()
		<-w.done
		if w.closer != nil {
			if err := w.closer.Close(); err != nil {
				w.setErr(err)
			}
		}
	})
	return w.Err()
}

// Err returns the first write error.
func (w *LineWriter) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *LineWriter) setErr(err error) {
	w.mu.Lock()
	if w.err == nil {
		w.err = err
	}
	w.mu.Unlock()
}

func (w *LineWriter) run(bw *bufio.Writer) {
	defer close(w.done)
	for line := range w.lines {
		if _, err := bw.Write(line); err != nil {
			w.setErr(err)
			continue
		}
		if len(w.lines) == 0 {
			if err := bw.Flush(); err != nil {
				w.setErr(err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		w.setErr(err)
	}
}

// PumpStats counts what Pump did with each line.
type PumpStats struct {
	Forwarded int
	Dropped   int
	Malformed int
}

// Pump reads JSON lines from r and pushes each decoded record onto h until
// r is exhausted or ctx ends. Records that do not fit are dropped; lines that
// do not decode or exceed the line limit are skipped and counted as
// malformed. On an early return the caller must keep draining r so the
// writing side never blocks.
func Pump(ctx context.Context, r io.Reader, h Handle) (PumpStats, error) {
	var stats PumpStats
	br := bufio.NewReaderSize(r, 64*1024)
	buf := make([]byte, 0, 64*1024)
	for {
		line, oversized, readErr := readRelayLine(br, buf[:0])
		buf = line
		if err := contextError(ctx); err != nil {
			return stats, err
		}
		switch {
		case oversized:
			stats.Malformed++
		case len(bytes.TrimSpace(line)) > 0:
			rec, err := record.Decode(line)
			if err != nil {
				stats.Malformed++
				break
			}
			switch err := h.TryPush(rec); {
			case err == nil:
				stats.Forwarded++
			case errors.Is(err, ErrFull):
				stats.Dropped++
			default:
				return stats, fmt.Errorf("pump relay records: %w", err)
			}
		}
		if errors.Is(readErr, io.EOF) {
			return stats, nil
		}
		if readErr != nil {
			return stats, fmt.Errorf("read relay pipe: %w", readErr)
		}
	}
}

// readRelayLine appends the next line of br to buf. A line longer than
// maxLineBytes is consumed through its newline and reported as oversized
// with its bytes discarded.
func readRelayLine(br *bufio.Reader, buf []byte) ([]byte, bool, error) {
	oversized := false
	for {
		chunk, err := br.ReadSlice('\n')
		if !oversized {
			if len(buf)+len(chunk) > maxLineBytes {
				oversized = true
				buf = buf[:0]
			} else {
				buf = append(buf, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return buf, oversized, err
	}
}
