package logging

import "log/slog"

// Err wraps err under the key the slog bridge treats as the event exception.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// NewNop returns a logger whose events are discarded.
func NewNop() *Logger {
	return NewPipeline(WithFallback(nil)).Logger("")
}
