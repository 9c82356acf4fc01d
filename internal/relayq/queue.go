package relayq

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"skellylogs/internal/record"
)

// DefaultCapacity is the queue size used when none is configured.
const DefaultCapacity = 1000

var (
	// ErrFull is returned by TryPush when the queue has no room. It is an
	// expected backpressure signal.
	ErrFull = errors.New("relay queue full")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("relay queue closed")
)

// Handle is the producer side of a relay queue.
type Handle interface {
	ID() string
	// TryPush enqueues r without waiting. A full queue returns ErrFull.
	TryPush(r record.FlatRecord) error
}

// Queue is a bounded in-memory FIFO of flat records.
type Queue struct {
	id string

	mu     sync.Mutex
	cond   *sync.Cond
	buf    []record.FlatRecord
	head   int
	size   int
	closed bool
}

// NewQueue constructs a queue holding at most capacity records.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	q := &Queue{
		id:  uuid.NewString(),
		buf: make([]record.FlatRecord, capacity),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *Queue) ID() string { return q.id }

// Cap reports the fixed capacity.
func (q *Queue) Cap() int { return len(q.buf) }

// Len reports the number of queued records.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// TryPush appends r if there is room. It never waits.
func (q *Queue) TryPush(r record.FlatRecord) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	if q.size == len(q.buf) {
		return ErrFull
	}
	q.buf[(q.head+q.size)%len(q.buf)] = r
	q.size++
	q.cond.Signal()
	return nil
}

// TryPop removes the oldest record if one is queued.
func (q *Queue) TryPop() (record.FlatRecord, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.size == 0 {
		return record.FlatRecord{}, false
	}
	return q.popLocked(), true
}

// Pop blocks until a record is available, the queue is closed and empty, or
// ctx ends.
func (q *Queue) Pop(ctx context.Context) (record.FlatRecord, error) {
	cancelWait := make(chan struct{})
	if ctx != nil && ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				q.mu.Lock()
				q.cond.Broadcast()
				q.mu.Unlock()
			case <-cancelWait:
			}
		}()
	}
	defer close(cancelWait)

	q.mu.Lock()
	defer q.mu.Unlock()
	for q.size == 0 {
		if q.closed {
			return record.FlatRecord{}, ErrClosed
		}
		if err := contextError(ctx); err != nil {
			return record.FlatRecord{}, err
		}
		q.cond.Wait()
	}
	return q.popLocked(), nil
}

// Drain removes up to limit records without blocking. A limit <= 0 drains
// everything queued.
func (q *Queue) Drain(limit int) []record.FlatRecord {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := q.size
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]record.FlatRecord, 0, n)
	for range n {
		out = append(out, q.popLocked())
	}
	return out
}

// Close stops accepting records and wakes blocked consumers. Records already
// queued remain poppable.
func (q *Queue) Close() error {
	q.mu.Lock()
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()
	return nil
}

func (q *Queue) popLocked() record.FlatRecord {
	r := q.buf[q.head]
	q.buf[q.head] = record.FlatRecord{}
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return r
}

func contextError(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}
