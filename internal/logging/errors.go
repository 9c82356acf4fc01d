package logging

import (
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// defaultErrorLogger reports pipeline failures on stderr. It never routes
// back through a pipeline.
func defaultErrorLogger() logr.Logger {
	return stdr.New(log.New(os.Stderr, "skellylogs ", log.LstdFlags))
}

func (p *Pipeline) report(sink Sink, ev *Event, err error) {
	kind := "unknown"
	if sink != nil {
		kind = sink.Kind()
	}
	p.metrics.SinkErrors.WithLabelValues(kind).Inc()
	if ev == nil {
		p.errLog.Error(err, "log sink close failed", "sink", kind)
		return
	}
	p.errLog.Error(err, "log sink failed", "sink", kind, "source", ev.Name, "level", ev.Level.String())
}
