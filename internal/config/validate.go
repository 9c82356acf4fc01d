package config

import (
	"errors"
	"fmt"

	"skellylogs/internal/severity"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateQueue(); err != nil {
		return err
	}
	return c.validateSources()
}

func (c *Config) validateLogging() error {
	if _, err := severity.Parse(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.ConsoleColor {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("logging.console_color must be auto, always, or never (got %q)", c.Logging.ConsoleColor)
	}
	return nil
}

func (c *Config) validateQueue() error {
	if c.Queue.Capacity < 0 {
		return errors.New("queue.capacity must be positive")
	}
	return nil
}

func (c *Config) validateSources() error {
	for name, raw := range c.Sources {
		if _, err := severity.Parse(raw); err != nil {
			return fmt.Errorf("sources.%s: %w", name, err)
		}
	}
	return nil
}
