package logging

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LogFilePattern matches files named by the default log path policy.
const LogFilePattern = "log_*.log"

// PruneLogs removes files in dir matching pattern that are older than
// retentionDays, skipping any path in keep. A retentionDays value of 0
// disables pruning. It returns the number of files removed.
func PruneLogs(l *Logger, dir, pattern string, retentionDays int, keep ...string) int {
	if retentionDays <= 0 || strings.TrimSpace(dir) == "" {
		return 0
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	exclusions := make(map[string]struct{}, len(keep))
	for _, path := range keep {
		if abs, err := filepath.Abs(path); err == nil {
			exclusions[abs] = struct{}{}
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if matched, err := filepath.Match(pattern, entry.Name()); err != nil || !matched {
			continue
		}
		fullPath := filepath.Join(dir, entry.Name())
		if abs, err := filepath.Abs(fullPath); err == nil {
			fullPath = abs
		}
		if _, skip := exclusions[fullPath]; skip {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(fullPath); err != nil {
			if l != nil {
				l.Warn("log retention could not remove %s: %v", fullPath, err)
			}
			continue
		}
		removed++
		if l != nil {
			l.Debug("pruned old log %s", fullPath)
		}
	}
	return removed
}
