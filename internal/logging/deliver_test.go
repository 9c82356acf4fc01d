package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-logr/logr"

	"skellylogs/internal/severity"
)

func TestDeliverFallsBackWhenResetMidFlight(t *testing.T) {
	var buf bytes.Buffer
	p := NewPipeline(WithFallback(&buf), WithErrorLogger(logr.Discard()))
	recent := NewRecentSink(4, severity.All)
	set := newSinkSet(severity.All, NewSourceFloors(nil), []Sink{recent})
	set.retire(p.report)

	p.deliver(&Event{Name: "app", Level: severity.Warning, Message: "after reset"}, set)
	p.deliver(&Event{Name: "app", Level: severity.Info, Message: "quiet"}, set)

	out := buf.String()
	if !strings.Contains(out, "after reset") {
		t.Fatalf("expected warning on fallback, got %q", out)
	}
	if strings.Contains(out, "quiet") {
		t.Fatalf("info must not reach the fallback: %q", out)
	}
	if entries, _ := recent.Tail(10); len(entries) != 0 {
		t.Fatalf("retired sink received %d entries", len(entries))
	}
}

func TestDeliverFollowsReconfiguration(t *testing.T) {
	p := NewPipeline(WithFallback(nil), WithErrorLogger(logr.Discard()))
	stale := newSinkSet(severity.All, NewSourceFloors(nil), []Sink{NewRecentSink(4, severity.All)})
	stale.retire(p.report)
	fresh := NewRecentSink(4, severity.All)
	p.active.Store(newSinkSet(severity.All, NewSourceFloors(nil), []Sink{fresh}))

	p.deliver(&Event{Name: "app", Level: severity.Info, Message: "moved"}, stale)

	entries, _ := fresh.Tail(10)
	if len(entries) != 1 || entries[0].Record.Message != "moved" {
		t.Fatalf("expected event on the new set, got %+v", entries)
	}
}
