package logging_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"skellylogs/internal/logging"
	"skellylogs/internal/severity"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q in:\n%s", needle, haystack)
	}
}

func requireNotContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Fatalf("did not expect %q in:\n%s", needle, haystack)
	}
}

type failingSink struct {
	floor  severity.Level
	panics bool
}

func (s failingSink) Kind() string          { return "broken" }
func (s failingSink) Floor() severity.Level { return s.floor }
func (s failingSink) Close() error          { return nil }

func (s failingSink) Handle(*logging.Event) error {
	if s.panics {
		panic("sink exploded")
	}
	return errors.New("disk on fire")
}
