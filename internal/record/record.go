// Package record defines the flat, serialization-safe projection of a log
// event that crosses the relay queue boundary.
//
// Every field is a primitive, an always-empty list, or a nullable string.
// The JSON keys are the wire contract with the relay consumer and must not
// change.
package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"skellylogs/internal/severity"
)

const (
	TypeLogRecord        = "LogRecord"
	MessageTypeLogRecord = "log_record"
	// DefaultDeltaT is used when an event never passed the elapsed-time stage.
	DefaultDeltaT = "0.000ms"
)

// ErrNotLogRecord is returned by Decode for payloads of another message type.
var ErrNotLogRecord = errors.New("payload is not a log record")

// FlatRecord is the wire shape pushed onto the relay queue.
type FlatRecord struct {
	Name             string  `json:"name"`
	Msg              string  `json:"msg"`
	Args             []any   `json:"args"`
	LevelName        string  `json:"levelname"`
	LevelNo          int     `json:"levelno"`
	Pathname         string  `json:"pathname"`
	Filename         string  `json:"filename"`
	Module           string  `json:"module"`
	Lineno           int     `json:"lineno"`
	FuncName         string  `json:"funcName"`
	Created          float64 `json:"created"`
	Msecs            float64 `json:"msecs"`
	RelativeCreated  float64 `json:"relativeCreated"`
	Thread           int64   `json:"thread"`
	ThreadName       string  `json:"threadName"`
	ProcessName      string  `json:"processName"`
	Process          int     `json:"process"`
	DeltaT           string  `json:"delta_t"`
	Message          string  `json:"message"`
	Asctime          string  `json:"asctime"`
	FormattedMessage string  `json:"formatted_message"`
	Type             string  `json:"type"`
	MessageType      string  `json:"message_type"`
	ExcInfo          *string `json:"exc_info"`
	ExcText          *string `json:"exc_text"`
	StackInfo        *string `json:"stack_info"`
}

// Keys lists the wire keys in contract order.
var Keys = []string{
	"name", "msg", "args", "levelname", "levelno", "pathname", "filename",
	"module", "lineno", "funcName", "created", "msecs", "relativeCreated",
	"thread", "threadName", "processName", "process", "delta_t", "message",
	"asctime", "formatted_message", "type", "message_type", "exc_info",
	"exc_text", "stack_info",
}

// Normalize fills the constant and defaulted fields and replaces invalid
// UTF-8 in every string so the record always encodes.
func (r FlatRecord) Normalize() FlatRecord {
	r.Args = []any{}
	r.Type = TypeLogRecord
	r.MessageType = MessageTypeLogRecord
	if r.DeltaT == "" {
		r.DeltaT = DefaultDeltaT
	}
	for _, field := range []*string{
		&r.Name, &r.Msg, &r.LevelName, &r.Pathname, &r.Filename, &r.Module,
		&r.FuncName, &r.ThreadName, &r.ProcessName, &r.DeltaT, &r.Message,
		&r.Asctime, &r.FormattedMessage,
	} {
		*field = clean(*field)
	}
	r.ExcInfo = cleanPtr(r.ExcInfo)
	r.ExcText = cleanPtr(r.ExcText)
	r.StackInfo = cleanPtr(r.StackInfo)
	return r
}

// Level returns the record severity.
func (r FlatRecord) Level() severity.Level { return severity.Level(r.LevelNo) }

// Encode renders the normalized record as one JSON object.
func (r FlatRecord) Encode() ([]byte, error) {
	data, err := json.Marshal(r.Normalize())
	if err != nil {
		return nil, fmt.Errorf("encode log record: %w", err)
	}
	return data, nil
}

// Decode parses a JSON payload produced by Encode.
func Decode(data []byte) (FlatRecord, error) {
	var r FlatRecord
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&r); err != nil {
		return FlatRecord{}, fmt.Errorf("decode log record: %w", err)
	}
	if r.MessageType != MessageTypeLogRecord {
		return FlatRecord{}, fmt.Errorf("%w: message_type %q", ErrNotLogRecord, r.MessageType)
	}
	if r.Args == nil {
		r.Args = []any{}
	}
	return r, nil
}

// Map returns the record as a key/value dump keyed by wire name.
func (r FlatRecord) Map() map[string]any {
	r = r.Normalize()
	return map[string]any{
		"name":              r.Name,
		"msg":               r.Msg,
		"args":              r.Args,
		"levelname":         r.LevelName,
		"levelno":           r.LevelNo,
		"pathname":          r.Pathname,
		"filename":          r.Filename,
		"module":            r.Module,
		"lineno":            r.Lineno,
		"funcName":          r.FuncName,
		"created":           r.Created,
		"msecs":             r.Msecs,
		"relativeCreated":   r.RelativeCreated,
		"thread":            r.Thread,
		"threadName":        r.ThreadName,
		"processName":       r.ProcessName,
		"process":           r.Process,
		"delta_t":           r.DeltaT,
		"message":           r.Message,
		"asctime":           r.Asctime,
		"formatted_message": r.FormattedMessage,
		"type":              r.Type,
		"message_type":      r.MessageType,
		"exc_info":          r.ExcInfo,
		"exc_text":          r.ExcText,
		"stack_info":        r.StackInfo,
	}
}

// FromMap rebuilds a record from a key/value dump, such as one decoded from
// JSON into a generic map.
func FromMap(m map[string]any) (FlatRecord, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return FlatRecord{}, fmt.Errorf("rebuild log record: %w", err)
	}
	return Decode(data)
}

// Stringify renders v for a record field. Values whose formatting panics are
// replaced by a placeholder naming their type.
func Stringify(v any) (s string) {
	defer func() {
		if recover() != nil {
			s = fmt.Sprintf("<unprintable %T>", v)
		}
	}()
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return clean(tv)
	case error:
		return clean(tv.Error())
	case fmt.Stringer:
		return clean(tv.String())
	default:
		return clean(fmt.Sprint(v))
	}
}

// Ptr returns nil for an empty string and a pointer to s otherwise.
func Ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func clean(s string) string {
	return strings.ToValidUTF8(s, "�")
}

func cleanPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := clean(*p)
	return &s
}
