package logging

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"skellylogs/internal/colors"
	"skellylogs/internal/severity"
)

func sampleEvent() *Event {
	return &Event{
		Name:    "app.db",
		Message: "connected",
		Level:   severity.Info,
		Origin:  Origin{File: "/src/app/db.go", Line: 42, Function: "example.com/app.(*DB).Open"},
		Time:    time.Date(2024, 5, 1, 12, 30, 45, 123_000_000, time.Local),
		Process: Process{PID: 10, Name: "MainProcess", TID: 10, ThreadName: "MainThread"},
		DeltaT:  "1.500ms",
	}
}

func TestPlainFormatterLayout(t *testing.T) {
	got := PlainFormatter{}.Format(sampleEvent())
	want := "[2024-05-01T12:30:45.123] [INFO    ] [app.db] [db.go:42 (*DB).Open()] " +
		"[PID:10:MainProcess TID:10:MainThread] Δt:1.500ms └>> connected"
	if got != want {
		t.Fatalf("unexpected line:\n got %q\nwant %q", got, want)
	}
}

func TestPlainFormatterDefaults(t *testing.T) {
	ev := sampleEvent()
	ev.Name = ""
	ev.DeltaT = ""
	ev.Origin = Origin{}
	got := PlainFormatter{}.Format(ev)
	if !strings.Contains(got, "[root] [?]") {
		t.Fatalf("expected root name and unknown location, got %q", got)
	}
	if !strings.Contains(got, "Δt:0.000ms") {
		t.Fatalf("expected default delta, got %q", got)
	}
}

func TestPlainFormatterAppendsExceptionAndStack(t *testing.T) {
	ev := sampleEvent()
	ev.ExcText = "*errors.errorString: boom"
	ev.StackInfo = "Stack (most recent call first):\n  main.main\n"
	lines := strings.Split(PlainFormatter{}.Format(ev), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected message, exception and stack lines, got %q", lines)
	}
	if lines[1] != "*errors.errorString: boom" {
		t.Fatalf("unexpected exception line: %q", lines[1])
	}
}

// cloneEvent copies ev deeply enough to detect mutation by a formatter.
func cloneEvent(ev *Event) *Event {
	c := *ev
	if len(ev.Args) > 0 {
		c.Args = append([]any(nil), ev.Args...)
	}
	if ev.Exception != nil {
		exc := *ev.Exception
		c.Exception = &exc
	}
	return &c
}

func TestFormattersDoNotMutateEvent(t *testing.T) {
	ev := sampleEvent()
	ev.Message = ""
	ev.Template = "user %s"
	ev.Args = []any{"alice"}
	ev.Exception = &Exception{Err: errors.New("boom")}
	before := cloneEvent(ev)

	plain := PlainFormatter{}.Format(ev)
	color := ColorFormatter{}.Format(ev)

	if !reflect.DeepEqual(before, ev) {
		t.Fatalf("event changed during formatting:\nbefore %+v\nafter  %+v", before, ev)
	}
	if !strings.Contains(plain, "user alice") || !strings.Contains(color, "user alice") {
		t.Fatalf("expected rendered message in both outputs")
	}
	if !strings.Contains(plain, "boom") {
		t.Fatalf("expected exception rendered without being stored: %q", plain)
	}
}

func TestColorFormatterEscapes(t *testing.T) {
	ev := sampleEvent()
	plain := PlainFormatter{}.Format(ev)
	color := ColorFormatter{}.Format(ev)

	if strings.Contains(plain, "\033[") {
		t.Fatalf("plain output must not contain escapes: %q", plain)
	}
	if !strings.Contains(color, colors.ForLevel(severity.Info)+"INFO    "+colors.Reset) {
		t.Fatalf("expected colored level tag: %q", color)
	}
	if !strings.Contains(color, colors.ForID(10)+"PID:10:MainProcess"+colors.Reset) {
		t.Fatalf("expected id-colored process field: %q", color)
	}
}
