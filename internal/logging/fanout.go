package logging

import (
	"fmt"
	"sync"

	"skellylogs/internal/severity"
)

// sinkSet is one configuration generation. Emitters hold the read lock while
// dispatching; retirement takes the write lock once so sinks are closed only
// after in-flight events finish.
type sinkSet struct {
	mu      sync.RWMutex
	retired bool

	sinks   []Sink
	global  severity.Level
	lowest  severity.Level
	sources *SourceFloors
}

func newSinkSet(global severity.Level, sources *SourceFloors, sinks []Sink) *sinkSet {
	filtered := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			filtered = append(filtered, s)
		}
	}
	set := &sinkSet{sinks: filtered, global: global, sources: sources}
	set.lowest = severity.Level(1<<31 - 1)
	for _, s := range filtered {
		set.lowest = min(set.lowest, s.Floor())
	}
	return set
}

// enabled reports whether any sink would take the event.
func (s *sinkSet) enabled(source string, lvl severity.Level) bool {
	return lvl >= s.lowest && s.sources.Admits(source, lvl)
}

// dispatch delivers ev to every admitting sink and reports each failure.
// It returns false when the set was retired before it could be used.
func (s *sinkSet) dispatch(ev *Event, report func(Sink, *Event, error)) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.retired {
		return false
	}
	for _, sink := range s.sinks {
		if ev.Level < sink.Floor() {
			continue
		}
		if err := handleSafely(sink, ev); err != nil {
			report(sink, ev, err)
		}
	}
	return true
}

func handleSafely(sink Sink, ev *Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s sink panicked: %v", sink.Kind(), r)
		}
	}()
	return sink.Handle(ev)
}

// retire blocks until in-flight dispatches finish, then closes every sink.
func (s *sinkSet) retire(report func(Sink, *Event, error)) {
	s.mu.Lock()
	if s.retired {
		s.mu.Unlock()
		return
	}
	s.retired = true
	s.mu.Unlock()
	for _, sink := range s.sinks {
		if err := sink.Close(); err != nil {
			report(sink, nil, err)
		}
	}
}
