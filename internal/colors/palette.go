package colors

import "skellylogs/internal/severity"

var palette = map[severity.Level]string{
	severity.Loop:     "\033[90m",
	severity.Trace:    "\033[37m",
	severity.Debug:    "\033[34m",
	severity.Info:     "\033[96m",
	severity.Success:  "\033[95m",
	severity.API:      "\033[92m",
	severity.Warning:  "\033[33m",
	severity.Error:    "\033[41m",
	severity.Critical: "\033[41;1m",
}

// ForLevel returns the fixed color for a severity. Unregistered ranks borrow
// the color of the nearest built-in below them.
func ForLevel(lvl severity.Level) string {
	if code, ok := palette[lvl]; ok {
		return code
	}
	best := severity.Level(-1)
	for candidate := range palette {
		if candidate <= lvl && candidate > best {
			best = candidate
		}
	}
	if best < 0 {
		return palette[severity.Loop]
	}
	return palette[best]
}

// Wrap surrounds text with code and a reset.
func Wrap(code, text string) string {
	if code == "" {
		return text
	}
	return code + text + Reset
}
