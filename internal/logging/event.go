package logging

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"skellylogs/internal/severity"
)

// Origin is the call site that raised an event.
type Origin struct {
	File     string
	Line     int
	Function string
}

// Filename is the base name of the source file.
func (o Origin) Filename() string {
	if o.File == "" {
		return ""
	}
	return filepath.Base(o.File)
}

// Module is the source file name without its extension.
func (o Origin) Module() string {
	name := o.Filename()
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// FuncName is the unqualified function name.
func (o Origin) FuncName() string {
	fn := o.Function
	if idx := strings.LastIndex(fn, "/"); idx >= 0 {
		fn = fn[idx+1:]
	}
	if idx := strings.Index(fn, "."); idx >= 0 {
		fn = fn[idx+1:]
	}
	return fn
}

// Exception is a live error attached to an event together with the program
// counters captured where it was logged.
type Exception struct {
	Err   error
	Stack []uintptr
}

// Event is the unit flowing through the pipeline. It is owned by one
// goroutine at a time and is mutated only by the enrichment stages.
type Event struct {
	Name     string
	Template string
	Args     []any
	Level    severity.Level
	Origin   Origin
	Time     time.Time
	Process  Process

	// Exception is cleared by MaterializeException; ExcText holds the
	// rendered form afterwards.
	Exception *Exception
	ExcText   string
	StackInfo string
	DeltaT    string

	// Message caches the rendered template. It is filled before fan-out.
	Message string
}

// Text returns the rendered message without caching it.
func (e *Event) Text() string {
	if e.Message != "" {
		return e.Message
	}
	return renderMessage(e.Template, e.Args)
}

func renderMessage(template string, args []any) string {
	if len(args) == 0 {
		return template
	}
	return fmt.Sprintf(template, args...)
}

// callerOrigin resolves the frame skip levels above its caller.
func callerOrigin(skip int) Origin {
	var pcs [1]uintptr
	if runtime.Callers(skip+2, pcs[:]) == 0 {
		return Origin{}
	}
	return originFromPC(pcs[0])
}

func originFromPC(pc uintptr) Origin {
	if pc == 0 {
		return Origin{}
	}
	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	return Origin{File: frame.File, Line: frame.Line, Function: frame.Function}
}

func callerStack(skip int) []uintptr {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip+2, pcs)
	return pcs[:n]
}
