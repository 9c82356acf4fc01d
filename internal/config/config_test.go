package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"skellylogs/internal/config"
	"skellylogs/internal/severity"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.EnvLevel, "")
	t.Setenv(config.EnvLogFile, "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantDir := filepath.Join(tempHome, "skellylogs_data", "logs")
	if cfg.File.Dir != wantDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.File.Dir, wantDir)
	}
	if cfg.File.Path != "" {
		t.Fatalf("expected no pinned log file, got %q", cfg.File.Path)
	}
	if cfg.Logging.Level != "INFO" {
		t.Fatalf("unexpected level: %q", cfg.Logging.Level)
	}
	if !cfg.Queue.Enabled || cfg.Queue.Capacity != 1000 {
		t.Fatalf("unexpected queue defaults: %+v", cfg.Queue)
	}
	if !cfg.Logging.QuietNoisySources {
		t.Fatal("expected noisy sources quieted by default")
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.EnvLevel, "")
	t.Setenv(config.EnvLogFile, "")

	configPath := filepath.Join(t.TempDir(), "custom.toml")
	content := `[logging]
level = "debug"
console_color = "NEVER"
quiet_noisy_sources = false

[file]
path = "~/pinned/run.log"
process_lock = true
retention_days = 7

[queue]
capacity = 10

[sources]
"net.http" = "warning"
".db." = "error"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Logging.Level != "DEBUG" {
		t.Fatalf("expected level normalized to DEBUG, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.ConsoleColor != "never" {
		t.Fatalf("expected console color never, got %q", cfg.Logging.ConsoleColor)
	}
	if cfg.File.Path != filepath.Join(tempHome, "pinned", "run.log") {
		t.Fatalf("unexpected pinned path: %q", cfg.File.Path)
	}
	if !cfg.File.ProcessLock || cfg.File.RetentionDays != 7 {
		t.Fatalf("unexpected file settings: %+v", cfg.File)
	}
	if cfg.Queue.Capacity != 10 {
		t.Fatalf("unexpected capacity: %d", cfg.Queue.Capacity)
	}

	floors, err := cfg.SourceFloors()
	if err != nil {
		t.Fatalf("SourceFloors: %v", err)
	}
	if len(floors) != 2 {
		t.Fatalf("expected only configured floors, got %v", floors)
	}
	if floors["net.http"] != severity.Warning {
		t.Fatalf("unexpected net.http floor: %v", floors["net.http"])
	}
	if floors["db"] != severity.Error {
		t.Fatalf("expected trimmed db key, got %v", floors)
	}
}

func TestEnvOverridesConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	pinned := filepath.Join(t.TempDir(), "env.log")
	t.Setenv(config.EnvLevel, "trace")
	t.Setenv(config.EnvLogFile, pinned)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[logging]\nlevel = \"ERROR\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Level != "TRACE" {
		t.Errorf("expected env level, got %q", cfg.Logging.Level)
	}
	if cfg.File.Path != pinned {
		t.Errorf("expected env log file, got %q", cfg.File.Path)
	}
}

func TestSourceFloorsMergeDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Sources = map[string]string{"http": "DEBUG", "app.db": "ERROR"}

	floors, err := cfg.SourceFloors()
	if err != nil {
		t.Fatalf("SourceFloors: %v", err)
	}
	if floors["http"] != severity.Debug {
		t.Fatalf("expected configured floor to win over default, got %v", floors["http"])
	}
	if floors["websockets"] != severity.Info {
		t.Fatalf("expected default websockets floor, got %v", floors["websockets"])
	}
	if floors["app.db"] != severity.Error {
		t.Fatalf("unexpected app.db floor: %v", floors["app.db"])
	}

	cfg.Sources = map[string]string{"app": "LOUD"}
	if _, err := cfg.SourceFloors(); err == nil {
		t.Fatal("expected error for unknown level name")
	}
}

func TestLogFileName(t *testing.T) {
	east := time.Date(2024, 5, 1, 12, 30, 45, 123_000_000, time.FixedZone("east", 2*3600))
	if got := config.LogFileName(east); got != "log_2024-05-01T12_30_45ms123_gmt+2.log" {
		t.Fatalf("unexpected name: %q", got)
	}
	west := time.Date(2024, 12, 31, 23, 59, 59, 7_000_000, time.FixedZone("west", -5*3600))
	if got := config.LogFileName(west); got != "log_2024-12-31T23_59_59ms007_gmt-5.log" {
		t.Fatalf("unexpected name: %q", got)
	}
}

func TestLogFilePathCreatesDirectory(t *testing.T) {
	cfg := config.Default()
	cfg.File.Dir = filepath.Join(t.TempDir(), "nested", "logs")
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	path, err := cfg.LogFilePath(now)
	if err != nil {
		t.Fatalf("LogFilePath: %v", err)
	}
	if filepath.Dir(path) != cfg.File.Dir {
		t.Fatalf("unexpected directory: %q", path)
	}
	if info, err := os.Stat(cfg.File.Dir); err != nil || !info.IsDir() {
		t.Fatalf("expected log directory to be created: %v", err)
	}

	cfg.File.Path = "/tmp/pinned.log"
	if path, _ := cfg.LogFilePath(now); path != "/tmp/pinned.log" {
		t.Fatalf("expected pinned path, got %q", path)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "quiet_noisy_sources") {
		t.Fatalf("sample config missing noisy source toggle: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.File.Dir, "skellylogs_data") {
		t.Fatalf("expected log dir to contain skellylogs_data, got %q", cfg.File.Dir)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "LOUD"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown level")
	}

	cfg = config.Default()
	cfg.Logging.ConsoleColor = "sometimes"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for console color")
	}

	cfg = config.Default()
	cfg.Queue.Capacity = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative capacity")
	}

	cfg = config.Default()
	cfg.Sources = map[string]string{"app": "nope"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for bad source floor")
	}

	cfg = config.Default()
	cfg.Logging.Level = "35"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("numeric level should validate: %v", err)
	}
}
