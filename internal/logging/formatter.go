package logging

import (
	"fmt"
	"strconv"
	"strings"

	"skellylogs/internal/colors"
)

// Formatter renders an event without modifying it.
type Formatter interface {
	Format(ev *Event) string
}

// lineParts holds the rendered pieces of one log line. Formatters fill a
// fresh value per event and never write back to the event.
type lineParts struct {
	asctime   string
	level     string
	name      string
	location  string
	process   string
	thread    string
	delta     string
	message   string
	exception string
	stack     string
}

func (p lineParts) String() string {
	var b strings.Builder
	b.Grow(96 + len(p.message) + len(p.exception))
	b.WriteByte('[')
	b.WriteString(p.asctime)
	b.WriteString("] [")
	b.WriteString(p.level)
	b.WriteString("] [")
	b.WriteString(p.name)
	b.WriteString("] [")
	b.WriteString(p.location)
	b.WriteString("] [")
	b.WriteString(p.process)
	b.WriteByte(' ')
	b.WriteString(p.thread)
	b.WriteString("] Δt:")
	b.WriteString(p.delta)
	b.WriteString(" └>> ")
	b.WriteString(p.message)
	if p.exception != "" {
		b.WriteByte('\n')
		b.WriteString(p.exception)
	}
	if p.stack != "" {
		b.WriteByte('\n')
		b.WriteString(p.stack)
	}
	return b.String()
}

func plainParts(ev *Event) lineParts {
	name := ev.Name
	if name == "" {
		name = "root"
	}
	delta := ev.DeltaT
	if delta == "" {
		delta = "0.000ms"
	}
	exception := ev.ExcText
	if exception == "" && ev.Exception != nil {
		exception = safeFormatException(ev.Exception)
	}
	return lineParts{
		asctime:   formatTimestamp(ev.Time),
		level:     fmt.Sprintf("%-8s", ev.Level.String()),
		name:      name,
		location:  formatLocation(ev.Origin),
		process:   "PID:" + strconv.Itoa(ev.Process.PID) + ":" + ev.Process.Name,
		thread:    "TID:" + strconv.FormatInt(ev.Process.TID, 10) + ":" + ev.Process.ThreadName,
		delta:     delta,
		message:   ev.Text(),
		exception: exception,
		stack:     strings.TrimRight(ev.StackInfo, "\n"),
	}
}

func formatLocation(o Origin) string {
	if o.File == "" {
		return "?"
	}
	loc := o.Filename() + ":" + strconv.Itoa(o.Line)
	if fn := o.FuncName(); fn != "" {
		loc += " " + fn + "()"
	}
	return loc
}

// PlainFormatter renders the uncolored single-line layout with a
// millisecond timestamp.
type PlainFormatter struct{}

func (PlainFormatter) Format(ev *Event) string {
	return plainParts(ev).String()
}

// ColorFormatter renders the plain layout with the severity tag colored by a
// fixed palette and the process and thread fields colored by their ids.
type ColorFormatter struct{}

func (ColorFormatter) Format(ev *Event) string {
	parts := plainParts(ev)
	parts.level = colors.Wrap(colors.ForLevel(ev.Level), parts.level)
	parts.process = colors.Wrap(colors.ForID(int64(ev.Process.PID)), parts.process)
	parts.thread = colors.Wrap(colors.ForID(ev.Process.TID), parts.thread)
	if parts.exception != "" {
		parts.exception = colors.Wrap(colors.ForLevel(ev.Level), parts.exception)
	}
	return parts.String()
}
