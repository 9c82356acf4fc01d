package severity

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Level is a severity rank. A sink floor admits an event iff event >= floor.
type Level int

const (
	All      Level = 0
	Loop     Level = 3
	Trace    Level = 5
	Debug    Level = 10
	Info     Level = 20
	Success  Level = 22
	API      Level = 25
	Warning  Level = 30
	Error    Level = 40
	Critical Level = 50
)

var (
	// ErrUnknownLevel reports a level name that was never registered.
	ErrUnknownLevel = errors.New("unknown severity level")
	// ErrConflict reports a registration that would rebind an existing rank or name.
	ErrConflict = errors.New("severity level conflict")
)

var builtins = []struct {
	level Level
	name  string
}{
	{All, "ALL"},
	{Loop, "LOOP"},
	{Trace, "TRACE"},
	{Debug, "DEBUG"},
	{Info, "INFO"},
	{Success, "SUCCESS"},
	{API, "API"},
	{Warning, "WARNING"},
	{Error, "ERROR"},
	{Critical, "CRITICAL"},
}

var aliases = map[string]Level{
	"NOTSET": All,
	"WARN":   Warning,
	"FATAL":  Critical,
}

// Registry maps ranks to names. The zero value is not usable; use NewRegistry.
type Registry struct {
	mu     sync.RWMutex
	byRank map[Level]string
	byName map[string]Level
}

// NewRegistry returns a registry seeded with the built-in levels.
func NewRegistry() *Registry {
	r := &Registry{
		byRank: make(map[Level]string, len(builtins)),
		byName: make(map[string]Level, len(builtins)),
	}
	for _, b := range builtins {
		r.byRank[b.level] = b.name
		r.byName[b.name] = b.level
	}
	return r
}

var upper = cases.Upper(language.Und)

func canonical(name string) string {
	return upper.String(strings.TrimSpace(name))
}

// Register binds rank to name. Registering an identical pair twice returns
// the level without error; rebinding either side returns ErrConflict.
func (r *Registry) Register(rank int, name string) (Level, error) {
	key := canonical(name)
	if key == "" {
		return 0, fmt.Errorf("register severity %d: empty name", rank)
	}
	if _, err := strconv.Atoi(key); err == nil {
		return 0, fmt.Errorf("register severity %d: numeric name %q", rank, name)
	}
	lvl := Level(rank)

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byName[key]; ok {
		if existing == lvl {
			return lvl, nil
		}
		return 0, fmt.Errorf("%w: %s already bound to %d", ErrConflict, key, existing)
	}
	if existing, ok := r.byRank[lvl]; ok {
		return 0, fmt.Errorf("%w: rank %d already named %s", ErrConflict, rank, existing)
	}
	r.byRank[lvl] = key
	r.byName[key] = lvl
	return lvl, nil
}

// RankOf resolves a level name (case-insensitive) to its rank.
func (r *Registry) RankOf(name string) (int, error) {
	key := canonical(name)
	r.mu.RLock()
	lvl, ok := r.byName[key]
	r.mu.RUnlock()
	if ok {
		return int(lvl), nil
	}
	if lvl, ok := aliases[key]; ok {
		return int(lvl), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
}

// NameOf returns the display name for rank, or "Level N" when unregistered.
func (r *Registry) NameOf(rank int) string {
	r.mu.RLock()
	name, ok := r.byRank[Level(rank)]
	r.mu.RUnlock()
	if ok {
		return name
	}
	return "Level " + strconv.Itoa(rank)
}

// Parse accepts a registered name or a decimal rank.
func (r *Registry) Parse(value string) (Level, error) {
	trimmed := strings.TrimSpace(value)
	if n, err := strconv.Atoi(trimmed); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("%w: negative rank %d", ErrUnknownLevel, n)
		}
		return Level(n), nil
	}
	rank, err := r.RankOf(trimmed)
	if err != nil {
		return 0, err
	}
	return Level(rank), nil
}

// Levels returns every registered level in ascending rank order.
func (r *Registry) Levels() []Level {
	r.mu.RLock()
	out := make([]Level, 0, len(r.byRank))
	for lvl := range r.byRank {
		out = append(out, lvl)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var std = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry { return std }

// Register binds a custom level in the process-wide registry.
func Register(rank int, name string) (Level, error) { return std.Register(rank, name) }

// RankOf resolves name in the process-wide registry.
func RankOf(name string) (int, error) { return std.RankOf(name) }

// NameOf names rank using the process-wide registry.
func NameOf(rank int) string { return std.NameOf(rank) }

// Parse resolves a name or numeric rank in the process-wide registry.
func Parse(value string) (Level, error) { return std.Parse(value) }

// Levels lists the process-wide registry in rank order.
func Levels() []Level { return std.Levels() }

func (l Level) String() string { return std.NameOf(int(l)) }

// Admits reports whether an event at rank event passes the floor l.
func (l Level) Admits(event Level) bool { return event >= l }

// MarshalText encodes the level by name.
func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText accepts either a name or a rank.
func (l *Level) UnmarshalText(text []byte) error {
	lvl, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = lvl
	return nil
}

// Slog maps the level onto the slog scale. Custom ranks land on the slog
// level of the nearest built-in at or below them.
func (l Level) Slog() slog.Level {
	switch {
	case l >= Critical:
		return slog.LevelError + 4
	case l >= Error:
		return slog.LevelError
	case l >= Warning:
		return slog.LevelWarn
	case l >= API:
		return slog.LevelInfo + 2
	case l >= Success:
		return slog.LevelInfo + 1
	case l >= Info:
		return slog.LevelInfo
	case l >= Debug:
		return slog.LevelDebug
	case l >= Trace:
		return slog.LevelDebug - 4
	default:
		return slog.LevelDebug - 8
	}
}

// FromSlog maps an slog level onto the severity scale.
func FromSlog(lvl slog.Level) Level {
	switch {
	case lvl >= slog.LevelError+4:
		return Critical
	case lvl >= slog.LevelError:
		return Error
	case lvl >= slog.LevelWarn:
		return Warning
	case lvl >= slog.LevelInfo+2:
		return API
	case lvl >= slog.LevelInfo+1:
		return Success
	case lvl >= slog.LevelInfo:
		return Info
	case lvl >= slog.LevelDebug:
		return Debug
	case lvl >= slog.LevelDebug-4:
		return Trace
	default:
		return Loop
	}
}
