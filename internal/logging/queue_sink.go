package logging

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"skellylogs/internal/record"
	"skellylogs/internal/relayq"
	"skellylogs/internal/severity"
)

// QueueFloor is the lowest level the relay queue ever admits.
const QueueFloor = severity.Trace

// QueueSink flattens events and pushes them onto a relay queue without
// waiting. Records that do not fit are dropped.
type QueueSink struct {
	handle  relayq.Handle
	floor   severity.Level
	dropped atomic.Uint64
	drops   prometheus.Counter
}

// NewQueueSink builds a queue sink. The floor never drops below QueueFloor.
func NewQueueSink(h relayq.Handle, floor severity.Level) *QueueSink {
	return &QueueSink{handle: h, floor: max(floor, QueueFloor)}
}

func (s *QueueSink) Kind() string          { return SinkQueue }
func (s *QueueSink) Floor() severity.Level { return s.floor }

// Dropped reports how many records were rejected by a full queue.
func (s *QueueSink) Dropped() uint64 { return s.dropped.Load() }

// Handle builds the flat record and attempts the push. Full queues are not an
// error; anything else is returned for the pipeline to report.
func (s *QueueSink) Handle(ev *Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("queue sink: %v", r)
		}
	}()
	if ev.Level < s.floor {
		return nil
	}
	rec := Flatten(ev)
	switch err := s.handle.TryPush(rec); {
	case err == nil:
		return nil
	case errors.Is(err, relayq.ErrFull):
		s.dropped.Add(1)
		if s.drops != nil {
			s.drops.Inc()
		}
		return nil
	default:
		return fmt.Errorf("push to relay queue %s: %w", s.handle.ID(), err)
	}
}

// Close does not close the queue; it outlives reconfiguration.
func (s *QueueSink) Close() error { return nil }

// Flatten projects ev onto the wire record field by field. Arguments are
// never copied; they are already rendered into the message.
func Flatten(ev *Event) record.FlatRecord {
	parts := plainParts(ev)
	rec := record.FlatRecord{
		Name:             ev.Name,
		Msg:              ev.Template,
		LevelName:        ev.Level.String(),
		LevelNo:          int(ev.Level),
		Pathname:         ev.Origin.File,
		Filename:         ev.Origin.Filename(),
		Module:           ev.Origin.Module(),
		Lineno:           ev.Origin.Line,
		FuncName:         ev.Origin.FuncName(),
		Created:          epochSeconds(ev.Time),
		Msecs:            millisecondPart(ev.Time),
		RelativeCreated:  sinceStart(ev.Time),
		Thread:           ev.Process.TID,
		ThreadName:       ev.Process.ThreadName,
		ProcessName:      ev.Process.Name,
		Process:          ev.Process.PID,
		DeltaT:           ev.DeltaT,
		Message:          parts.message,
		Asctime:          parts.asctime,
		FormattedMessage: parts.String(),
		ExcText:          record.Ptr(ev.ExcText),
		StackInfo:        record.Ptr(ev.StackInfo),
	}
	if ev.Exception != nil {
		rec.ExcInfo = record.Ptr(safeFormatException(ev.Exception))
	}
	return rec.Normalize()
}
