package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"skellylogs/internal/severity"
)

//go:embed sample_config.toml
var sampleConfig string

// Logging contains console and level settings.
type Logging struct {
	Level        string `toml:"level"`
	ConsoleColor string `toml:"console_color"`
	// QuietNoisySources applies DefaultSourceFloors beneath [sources].
	QuietNoisySources bool `toml:"quiet_noisy_sources"`
}

// File contains the durable log file settings.
type File struct {
	// Path pins the log file. When empty a timestamped file is created in Dir.
	Path          string `toml:"path"`
	Dir           string `toml:"dir"`
	ProcessLock   bool   `toml:"process_lock"`
	RetentionDays int    `toml:"retention_days"`
}

// Queue contains relay queue settings.
type Queue struct {
	Enabled  bool `toml:"enabled"`
	Capacity int  `toml:"capacity"`
}

// Config encapsulates all configuration values for skellylogs.
//
// Configuration sections:
//   - Logging: global floor and console coloring
//   - File: log file location, cross-process locking, retention
//   - Queue: relay queue toggle and capacity
//   - Sources: per-source floors keyed by dotted source name
type Config struct {
	Logging Logging           `toml:"logging"`
	File    File              `toml:"file"`
	Queue   Queue             `toml:"queue"`
	Sources map[string]string `toml:"sources"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// LogLevel returns the parsed global floor.
func (c *Config) LogLevel() (severity.Level, error) {
	lvl, err := severity.Parse(c.Logging.Level)
	if err != nil {
		return 0, fmt.Errorf("logging.level: %w", err)
	}
	return lvl, nil
}

// SourceFloors merges the default noisy-source floors (when enabled) with
// the [sources] table. Entries in [sources] win.
func (c *Config) SourceFloors() (map[string]severity.Level, error) {
	floors := make(map[string]severity.Level)
	if c.Logging.QuietNoisySources {
		for name, lvl := range DefaultSourceFloors() {
			floors[name] = lvl
		}
	}
	for name, raw := range c.Sources {
		lvl, err := severity.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("sources.%s: %w", name, err)
		}
		floors[name] = lvl
	}
	return floors, nil
}

// Marshal renders the config as TOML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
