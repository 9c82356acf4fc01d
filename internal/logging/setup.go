package logging

import (
	"errors"
	"fmt"
	"io"
	"time"

	"skellylogs/internal/config"
	"skellylogs/internal/relayq"
)

// SetupOptions carries the runtime pieces a config file cannot describe.
type SetupOptions struct {
	// Manager provides the relay queue. Defaults to relayq.Default().
	Manager *relayq.Manager
	// Queue is adopted as the relay queue when set, overriding queue.enabled.
	Queue relayq.Handle
	// Console receives console output. Defaults to stdout.
	Console io.Writer
	// Sinks are attached after the built-in sinks.
	Sinks []Sink
}

// Setup configures p from cfg. A worker process that has no relay handle yet
// returns false without touching p; every other outcome either configures p
// or returns an error.
func Setup(p *Pipeline, cfg *config.Config, opts SetupOptions) (bool, error) {
	if p == nil {
		p = Default()
	}
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return false, err
	}
	floors, err := cfg.SourceFloors()
	if err != nil {
		return false, err
	}
	color, err := ParseColorMode(cfg.Logging.ConsoleColor)
	if err != nil {
		return false, err
	}

	handle, ready, err := resolveQueue(cfg, opts)
	if err != nil {
		return false, err
	}
	if !ready {
		return false, nil
	}

	path, err := cfg.LogFilePath(time.Now())
	if err != nil {
		return false, err
	}

	if err := p.Configure(Options{
		Level:           level,
		FilePath:        path,
		Queue:           handle,
		SourceFloors:    floors,
		Console:         opts.Console,
		ConsoleColor:    color,
		FileProcessLock: cfg.File.ProcessLock,
		Sinks:           opts.Sinks,
	}); err != nil {
		return false, err
	}

	if cfg.File.RetentionDays > 0 {
		PruneLogs(p.Logger("skellylogs.retention"), cfg.File.Dir, LogFilePattern, cfg.File.RetentionDays, path)
	}
	return true, nil
}

func resolveQueue(cfg *config.Config, opts SetupOptions) (relayq.Handle, bool, error) {
	manager := opts.Manager
	if manager == nil {
		manager = relayq.Default()
	}
	if opts.Queue != nil {
		if err := manager.Adopt(opts.Queue); err != nil {
			return nil, false, fmt.Errorf("adopt relay queue: %w", err)
		}
		return opts.Queue, true, nil
	}
	if !cfg.Queue.Enabled {
		return nil, true, nil
	}
	if !manager.Owner() {
		handle, err := manager.Get()
		if errors.Is(err, relayq.ErrNotCreated) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		return handle, true, nil
	}
	if err := manager.SetCapacity(cfg.Queue.Capacity); err != nil && !errors.Is(err, relayq.ErrCapacityFixed) {
		return nil, false, err
	}
	handle, err := manager.CreateOrGet()
	if err != nil {
		return nil, false, err
	}
	return handle, true, nil
}
