package testsupport

import (
	"path/filepath"
	"testing"

	"skellylogs/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose log directory is a unique temp dir per
// test. Console color is disabled and noisy-source defaults are off so
// assertions see exactly the floors a test sets.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.File.Dir = filepath.Join(base, "logs")
	cfgVal.Logging.ConsoleColor = "never"
	cfgVal.Logging.QuietNoisySources = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLevel sets the global floor name.
func WithLevel(level string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.Level = level
	}
}

// WithQueue enables the relay queue with the given capacity.
func WithQueue(capacity int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Queue.Enabled = true
		b.cfg.Queue.Capacity = capacity
	}
}

// WithoutQueue disables the relay queue.
func WithoutQueue() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Queue.Enabled = false
	}
}

// WithSource sets one per-source floor.
func WithSource(name, level string) ConfigOption {
	return func(b *configBuilder) {
		if b.cfg.Sources == nil {
			b.cfg.Sources = map[string]string{}
		}
		b.cfg.Sources[name] = level
	}
}

// WithLogFile pins the log file to name inside the temp dir.
func WithLogFile(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.File.Path = filepath.Join(b.baseDir, name)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.File.Dir)
}
