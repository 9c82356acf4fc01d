package logging_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"skellylogs/internal/logging"
	"skellylogs/internal/testsupport"
)

func TestSlogBridge(t *testing.T) {
	h := testsupport.NewHarness(t)
	h.MustSetup(t, testsupport.NewConfig(t, testsupport.WithLevel("DEBUG"), testsupport.WithQueue(10)))

	sl := logging.NewSlogLogger(h.Pipeline.Logger("lib"))
	sl.With("component", "db").Info("served", "status", 200)
	sl.WithGroup("req").Debug("routed", "path", "/a b")
	sl.Error("failed", logging.Err(errors.New("boom")))

	records := h.Queue(t).Drain(0)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Message != "served component=db status=200" || records[0].LevelName != "INFO" {
		t.Fatalf("unexpected first record: %q %s", records[0].Message, records[0].LevelName)
	}
	if records[0].Filename != "bridges_test.go" || records[0].Name != "lib" {
		t.Fatalf("unexpected origin: %s %s", records[0].Filename, records[0].Name)
	}
	if records[1].Message != `routed req.path="/a b"` || records[1].LevelName != "DEBUG" {
		t.Fatalf("unexpected grouped record: %q %s", records[1].Message, records[1].LevelName)
	}
	if records[2].Message != "failed" || records[2].ExcText == nil || !strings.Contains(*records[2].ExcText, "boom") {
		t.Fatalf("expected error attribute as exception: %+v", records[2])
	}
	if records[2].ExcInfo != nil {
		t.Fatal("live exception must not reach the wire")
	}
}

func TestSlogBridgeRespectsFloor(t *testing.T) {
	h := testsupport.NewHarness(t)
	h.MustSetup(t, testsupport.NewConfig(t, testsupport.WithSource("lib", "ERROR")))

	handler := logging.NewSlogHandler(h.Pipeline.Logger("lib"))
	if handler.Enabled(context.Background(), 4) {
		t.Fatal("WARN should be gated by the source floor")
	}
	if !handler.Enabled(context.Background(), 8) {
		t.Fatal("ERROR should pass the source floor")
	}
}

func TestLogrBridge(t *testing.T) {
	h := testsupport.NewHarness(t)
	h.MustSetup(t, testsupport.NewConfig(t, testsupport.WithLevel("DEBUG"), testsupport.WithQueue(10)))

	lr := logging.NewLogr(h.Pipeline.Logger("lib"))
	lr.WithName("cache").WithValues("shard", 3).Info("warmed", "keys", 10)
	lr.V(1).Info("detail")
	lr.V(2).Info("deeper")
	lr.Error(errors.New("miss"), "lookup failed", "key")

	records := h.Queue(t).Drain(0)
	if len(records) != 3 {
		t.Fatalf("expected 3 queued records, got %d", len(records))
	}
	first := records[0]
	if first.Name != "lib.cache" || first.Message != "warmed shard=3 keys=10" {
		t.Fatalf("unexpected first record: %s %q", first.Name, first.Message)
	}
	if first.Filename != "bridges_test.go" || first.FuncName != "TestLogrBridge" {
		t.Fatalf("unexpected origin: %s %s", first.Filename, first.FuncName)
	}
	if records[1].LevelName != "DEBUG" {
		t.Fatalf("expected V(1) at DEBUG, got %s", records[1].LevelName)
	}
	last := records[2]
	if last.LevelName != "ERROR" || last.Message != "lookup failed key=<missing>" {
		t.Fatalf("unexpected error record: %s %q", last.LevelName, last.Message)
	}
	if last.ExcText == nil || !strings.Contains(*last.ExcText, "miss") {
		t.Fatalf("expected exception text, got %v", last.ExcText)
	}

	content := strings.Join(testsupport.ReadLines(t, h.FilePath(t)), "\n")
	requireContains(t, content, "deeper")
}

func TestContextCarriesLogger(t *testing.T) {
	h := testsupport.NewHarness(t)
	log := h.Pipeline.Logger("ctx")
	ctx := logging.NewContext(context.Background(), log)
	if logging.FromContext(ctx) != log {
		t.Fatal("expected stored logger")
	}
	if fallback := logging.FromContext(context.Background()); fallback.Pipeline() != logging.Default() {
		t.Fatal("expected default pipeline logger")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	log := logging.NewNop()
	log.Critical("nothing to see")
	if log.Enabled(0) {
		t.Fatal("nop logger should only admit the fallback range")
	}
}
