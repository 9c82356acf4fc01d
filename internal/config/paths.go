package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LogFileName names a log file for the instant now, e.g.
// log_2024-05-01T12_30_45ms123_gmt+2.log.
func LogFileName(now time.Time) string {
	_, offset := now.Zone()
	stamp := now.Format("2006-01-02T15:04:05.000") + fmt.Sprintf("_gmt%+d", offset/3600)
	stamp = strings.NewReplacer(":", "_", ".", "ms").Replace(stamp)
	return "log_" + stamp + ".log"
}

// LogFilePath returns file.path when set, otherwise a fresh timestamped file
// inside file.dir. The directory is created if needed.
func (c *Config) LogFilePath(now time.Time) (string, error) {
	if c.File.Path != "" {
		return c.File.Path, nil
	}
	dir := c.File.Dir
	if dir == "" {
		var err error
		if dir, err = expandPath(defaultLogDir); err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log directory %q: %w", dir, err)
	}
	return filepath.Join(dir, LogFileName(now)), nil
}

// EnsureDirectories creates the log directory.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.File.Dir}
	if c.File.Path != "" {
		dirs = append(dirs, filepath.Dir(c.File.Path))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}
