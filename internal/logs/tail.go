package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"skellylogs/internal/severity"
)

// ErrNoLogs is returned by Latest when the directory holds no log files.
var ErrNoLogs = errors.New("no log files found")

const (
	logPattern  = "log_*.log"
	defaultPoll = 250 * time.Millisecond
	maxLine     = 1024 * 1024
)

// TailOptions controls Tail.
type TailOptions struct {
	// Lines is how many trailing lines to print first. Zero starts at the end.
	Lines int
	// MinLevel hides entries below this severity.
	MinLevel severity.Level
	// Follow keeps polling for appended lines until the context ends.
	Follow bool
	Poll   time.Duration
}

// Latest returns the most recently modified log file in dir.
func Latest(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, logPattern))
	if err != nil {
		return "", fmt.Errorf("list log files: %w", err)
	}
	var newest string
	var newestMod time.Time
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest, newestMod = path, info.ModTime()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("%w in %s", ErrNoLogs, dir)
	}
	return newest, nil
}

// LineLevel extracts the severity from a formatted entry line. Continuation
// lines report false.
func LineLevel(line string) (severity.Level, bool) {
	if !strings.HasPrefix(line, "[") {
		return 0, false
	}
	idx := strings.Index(line, "] [")
	if idx < 0 {
		return 0, false
	}
	rest := line[idx+3:]
	end := strings.IndexByte(rest, ']')
	if end < 0 {
		return 0, false
	}
	name := strings.TrimSpace(rest[:end])
	if raw, ok := strings.CutPrefix(name, "Level "); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, false
		}
		return severity.Level(n), true
	}
	lvl, err := severity.Parse(name)
	if err != nil {
		return 0, false
	}
	return lvl, true
}

// levelFilter remembers the level of the last entry so continuation lines
// follow it.
type levelFilter struct {
	min     severity.Level
	current severity.Level
}

func (f *levelFilter) admit(line string) bool {
	if lvl, ok := LineLevel(line); ok {
		f.current = lvl
	}
	return f.current >= f.min
}

// Tail calls emit for the last opts.Lines admitted lines of path and, when
// following, for every admitted line appended afterwards. Following ends
// without error when ctx is cancelled.
func Tail(ctx context.Context, path string, opts TailOptions, emit func(string) error) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("log path %q is a directory", path)
	}

	filter := &levelFilter{min: opts.MinLevel}
	lines, offset, err := readLast(path, opts.Lines, filter)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if err := emit(line); err != nil {
			return err
		}
	}
	if !opts.Follow {
		return nil
	}

	poll := opts.Poll
	if poll <= 0 {
		poll = defaultPoll
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		offset, err = readForward(path, offset, func(line string) error {
			if !filter.admit(line) {
				return nil
			}
			return emit(line)
		})
		if err != nil {
			return err
		}
	}
}

func readLast(path string, limit int, filter *levelFilter) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if limit <= 0 {
		offset, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, fmt.Errorf("seek log file: %w", err)
		}
		return nil, offset, nil
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	ring := make([]string, limit)
	count, next := 0, 0
	var offset int64
	for scanner.Scan() {
		line := scanner.Text()
		offset += int64(len(scanner.Bytes())) + 1
		if !filter.admit(line) {
			continue
		}
		ring[next] = line
		next = (next + 1) % limit
		count = min(count+1, limit)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read log file: %w", err)
	}

	lines := make([]string, count)
	start := (next - count + limit) % limit
	for i := range count {
		lines[i] = ring[(start+i)%limit]
	}
	return lines, offset, nil
}

// readForward emits complete lines after offset and returns the offset just
// past the last complete line. A partial trailing line is left for the next
// poll.
func readForward(path string, offset int64, emit func(string) error) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return offset, fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() < offset {
		// Truncated; start over.
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("seek log file: %w", err)
	}

	reader := bufio.NewReaderSize(file, 64*1024)
	for {
		line, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			return offset, nil
		}
		if err != nil {
			return offset, fmt.Errorf("read log file: %w", err)
		}
		offset += int64(len(line))
		if err := emit(strings.TrimRight(line, "\r\n")); err != nil {
			return offset, err
		}
	}
}
