package logging

import (
	"strconv"
	"sync/atomic"
	"time"
)

// ElapsedTimer stamps events with the time since the previous event.
type ElapsedTimer struct {
	base time.Time
	prev atomic.Int64
}

// NewElapsedTimer starts the clock at the current instant.
func NewElapsedTimer() *ElapsedTimer {
	return &ElapsedTimer{base: time.Now()}
}

// Stamp sets ev.DeltaT and advances the shared previous-event time.
func (t *ElapsedTimer) Stamp(ev *Event) {
	ev.DeltaT = formatDelta(t.Next())
}

// Next swaps in the current instant and returns the gap since the last call.
func (t *ElapsedTimer) Next() time.Duration {
	now := int64(time.Since(t.base))
	delta := now - t.prev.Swap(now)
	if delta < 0 {
		delta = 0
	}
	return time.Duration(delta)
}

func formatDelta(d time.Duration) string {
	ms := float64(d) / float64(time.Millisecond)
	return strconv.FormatFloat(ms, 'f', 3, 64) + "ms"
}
