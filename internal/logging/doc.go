// Package logging routes log events from every goroutine of a process to
// three sinks: a colored console stream, a durable append-only file, and an
// optional relay queue that carries flat records to other processes.
//
// A Pipeline starts unconfigured and only echoes WARNING and above to a
// fallback writer. Configure (or Setup, which reads a config.Config) swaps in
// a complete sink set atomically; reconfiguring closes the old set once its
// in-flight events finish, so repeated setup never duplicates output.
//
// Loggers are cheap named views onto a pipeline. Each emission is stamped
// with its call site, process and thread identity, and the time since the
// previous event, then has any attached error rendered to text before it is
// handed to the sinks. Bridges are provided for log/slog and go-logr so
// library code can write into the same pipeline.
package logging
