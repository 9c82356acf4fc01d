package logging

import (
	"errors"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts pipeline activity. Pipelines sharing a registry share
// their counters.
type Metrics struct {
	Events       *prometheus.CounterVec
	SinkErrors   *prometheus.CounterVec
	QueueDropped prometheus.Counter
}

func newMetrics(reg prometheus.Registerer, log logr.Logger) *Metrics {
	m := &Metrics{
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skellylogs",
			Name:      "events_total",
			Help:      "Events admitted by the pipeline, by severity.",
		}, []string{"level"}),
		SinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skellylogs",
			Name:      "sink_errors_total",
			Help:      "Failures reported by sinks, by sink kind.",
		}, []string{"sink"}),
		QueueDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skellylogs",
			Name:      "queue_dropped_total",
			Help:      "Records dropped because the relay queue was full.",
		}),
	}
	if reg != nil {
		m.Events = register(reg, log, m.Events)
		m.SinkErrors = register(reg, log, m.SinkErrors)
		m.QueueDropped = register(reg, log, m.QueueDropped)
	}
	return m
}

// register adds c to reg, or returns the collector already registered under
// the same descriptor. Any other failure leaves c counting unexported.
func register[C prometheus.Collector](reg prometheus.Registerer, log logr.Logger, c C) C {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var dup prometheus.AlreadyRegisteredError
	if errors.As(err, &dup) {
		if existing, ok := dup.ExistingCollector.(C); ok {
			return existing
		}
	}
	log.Error(err, "register pipeline metric")
	return c
}
