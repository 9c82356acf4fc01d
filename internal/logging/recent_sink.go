package logging

import (
	"context"
	"sync"

	"skellylogs/internal/record"
	"skellylogs/internal/severity"
)

// SinkRecent is the kind reported by RecentSink.
const SinkRecent = "recent"

// RecentEntry is a flattened event and its position in the sink's history.
type RecentEntry struct {
	Seq    uint64
	Record record.FlatRecord
}

// RecentSink keeps the most recent events in memory and wakes waiters when
// new ones arrive.
type RecentSink struct {
	mu       sync.Mutex
	cond     *sync.Cond
	floor    severity.Level
	capacity int
	buffer   []RecentEntry
	nextSeq  uint64
	closed   bool
}

// NewRecentSink keeps up to capacity events at or above floor.
func NewRecentSink(capacity int, floor severity.Level) *RecentSink {
	if capacity <= 0 {
		capacity = 512
	}
	s := &RecentSink{capacity: capacity, floor: floor}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *RecentSink) Kind() string          { return SinkRecent }
func (s *RecentSink) Floor() severity.Level { return s.floor }

func (s *RecentSink) Handle(ev *Event) error {
	rec := Flatten(ev)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSinkClosed
	}
	s.nextSeq++
	if len(s.buffer) == s.capacity {
		copy(s.buffer, s.buffer[1:])
		s.buffer = s.buffer[:s.capacity-1]
	}
	s.buffer = append(s.buffer, RecentEntry{Seq: s.nextSeq, Record: rec})
	s.cond.Broadcast()
	return nil
}

// Close wakes any waiting Fetch. Buffered entries stay readable.
func (s *RecentSink) Close() error {
	s.mu.Lock()
	s.closed = true
	s.cond.Broadcast()
	s.mu.Unlock()
	return nil
}

// Fetch returns entries with a sequence greater than since. When wait is
// true it blocks until one is available, the sink closes, or ctx ends.
func (s *RecentSink) Fetch(ctx context.Context, since uint64, limit int, wait bool) ([]RecentEntry, uint64, error) {
	if limit <= 0 || limit > s.capacity {
		limit = s.capacity
	}

	cancelWait := make(chan struct{})
	if wait && ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				s.mu.Lock()
				s.cond.Broadcast()
				s.mu.Unlock()
			case <-cancelWait:
			}
		}()
	}
	defer close(cancelWait)

	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		entries, next := s.snapshotLocked(since, limit)
		if len(entries) > 0 || !wait || s.closed {
			return entries, next, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, next, err
		}
		s.cond.Wait()
	}
}

// Tail returns the most recent limit entries without blocking.
func (s *RecentSink) Tail(limit int) ([]RecentEntry, uint64) {
	if limit <= 0 || limit > s.capacity {
		limit = s.capacity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	start := max(len(s.buffer)-limit, 0)
	out := make([]RecentEntry, len(s.buffer)-start)
	copy(out, s.buffer[start:])
	return out, s.nextSeq
}

func (s *RecentSink) snapshotLocked(since uint64, limit int) ([]RecentEntry, uint64) {
	start := len(s.buffer)
	for i, entry := range s.buffer {
		if entry.Seq > since {
			start = i
			break
		}
	}
	end := min(start+limit, len(s.buffer))
	out := make([]RecentEntry, end-start)
	copy(out, s.buffer[start:end])
	return out, s.nextSeq
}
