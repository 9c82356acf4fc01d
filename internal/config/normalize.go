package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.applyEnv()
	if err := c.normalizeFile(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeQueue()
	c.normalizeSources()
	return nil
}

func (c *Config) applyEnv() {
	if value, ok := os.LookupEnv(EnvLevel); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	if value, ok := os.LookupEnv(EnvLogFile); ok && strings.TrimSpace(value) != "" {
		c.File.Path = value
	}
}

func (c *Config) normalizeFile() error {
	if strings.TrimSpace(c.File.Dir) == "" {
		c.File.Dir = defaultLogDir
	}
	var err error
	if c.File.Dir, err = expandPath(strings.TrimSpace(c.File.Dir)); err != nil {
		return fmt.Errorf("file.dir: %w", err)
	}
	if c.File.Path, err = expandPath(strings.TrimSpace(c.File.Path)); err != nil {
		return fmt.Errorf("file.path: %w", err)
	}
	if c.File.RetentionDays < 0 {
		c.File.RetentionDays = 0
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToUpper(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.ConsoleColor = strings.ToLower(strings.TrimSpace(c.Logging.ConsoleColor))
	if c.Logging.ConsoleColor == "" {
		c.Logging.ConsoleColor = defaultConsoleColor
	}
}

func (c *Config) normalizeQueue() {
	if c.Queue.Capacity == 0 {
		c.Queue.Capacity = defaultQueueCapacity
	}
}

func (c *Config) normalizeSources() {
	if len(c.Sources) == 0 {
		return
	}
	cleaned := make(map[string]string, len(c.Sources))
	for name, lvl := range c.Sources {
		key := strings.Trim(strings.TrimSpace(name), ".")
		if key == "" {
			continue
		}
		cleaned[key] = strings.ToUpper(strings.TrimSpace(lvl))
	}
	c.Sources = cleaned
}
