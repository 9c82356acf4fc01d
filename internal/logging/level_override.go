package logging

import (
	"sort"
	"strings"

	"skellylogs/internal/severity"
)

// SourceFloors holds per-source minimum levels keyed by dotted source name.
// A floor on "net" also applies to "net.http" unless a longer prefix has its
// own floor.
type SourceFloors struct {
	names  []string
	floors map[string]severity.Level
}

// NewSourceFloors copies floors into an immutable lookup.
func NewSourceFloors(floors map[string]severity.Level) *SourceFloors {
	sf := &SourceFloors{floors: make(map[string]severity.Level, len(floors))}
	for name, lvl := range floors {
		key := strings.Trim(strings.TrimSpace(name), ".")
		if key == "" {
			continue
		}
		sf.floors[key] = lvl
		sf.names = append(sf.names, key)
	}
	sort.Strings(sf.names)
	return sf
}

// Lookup returns the floor governing source, if any.
func (sf *SourceFloors) Lookup(source string) (severity.Level, bool) {
	if sf == nil || len(sf.floors) == 0 {
		return 0, false
	}
	for name := source; name != ""; {
		if lvl, ok := sf.floors[name]; ok {
			return lvl, true
		}
		idx := strings.LastIndexByte(name, '.')
		if idx < 0 {
			break
		}
		name = name[:idx]
	}
	return 0, false
}

// Admits reports whether an event from source at lvl passes its floor.
func (sf *SourceFloors) Admits(source string, lvl severity.Level) bool {
	floor, ok := sf.Lookup(source)
	return !ok || lvl >= floor
}

// Map returns a copy of the configured floors.
func (sf *SourceFloors) Map() map[string]severity.Level {
	if sf == nil {
		return map[string]severity.Level{}
	}
	out := make(map[string]severity.Level, len(sf.names))
	for _, name := range sf.names {
		out[name] = sf.floors[name]
	}
	return out
}
