package logging

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"skellylogs/internal/record"
)

// MaterializeException renders a live exception into ExcText, keeping any
// text already present, and drops the live reference.
func MaterializeException(ev *Event) {
	if ev.Exception == nil {
		return
	}
	if ev.ExcText == "" {
		ev.ExcText = safeFormatException(ev.Exception)
	}
	ev.Exception = nil
}

// FormatException renders the error chain and captured frames.
func FormatException(exc *Exception) string {
	if exc == nil || exc.Err == nil {
		return ""
	}
	var b strings.Builder
	writeErrorLine(&b, exc.Err)
	for cause := errors.Unwrap(exc.Err); cause != nil; cause = errors.Unwrap(cause) {
		b.WriteString("Caused by ")
		writeErrorLine(&b, cause)
	}
	if len(exc.Stack) > 0 {
		b.WriteString(formatFrames("Stack (most recent call first):", exc.Stack))
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeErrorLine(b *strings.Builder, err error) {
	fmt.Fprintf(b, "%T: %s\n", err, err.Error())
}

func formatFrames(title string, pcs []uintptr) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteByte('\n')
	frames := runtime.CallersFrames(pcs)
	for {
		frame, more := frames.Next()
		if frame.Function != "" {
			b.WriteString("  ")
			b.WriteString(frame.Function)
			b.WriteString("\n    ")
			b.WriteString(frame.File)
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(frame.Line))
			b.WriteByte('\n')
		}
		if !more {
			break
		}
	}
	return b.String()
}

// safeFormatException falls back to the type and a best-effort message when
// the error's own formatting panics.
func safeFormatException(exc *Exception) (text string) {
	defer func() {
		if recover() != nil {
			text = fmt.Sprintf("%T: %s", exc.Err, record.Stringify(exc.Err))
		}
	}()
	return FormatException(exc)
}
