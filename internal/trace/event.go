// Package trace writes a JSONL event stream describing a subsetting run.
package trace

import (
	"time"
)

// Level represents the severity of an event.
const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Event types.
const (
	TypeRunStart     = "run_start"
	TypeRunEnd       = "run_end"
	TypeExtract      = "extract"
	TypeMissingIcons = "missing_icons"
	TypeSetSkipped   = "set_skipped"
	TypeToolRun      = "tool_run"
	TypeToolFail     = "tool_fail"
	TypeVerify       = "verify"
	TypeSizeReport   = "size_report"
	TypeStylesheet   = "stylesheet"
)

// Event represents a single trace event.
type Event struct {
	Seq       int       `json:"seq"`
	Timestamp time.Time `json:"ts"`

	Type  string `json:"type"`
	Level string `json:"level"`

	// Set is the icon set the event belongs to, empty for run-level events.
	Set string `json:"set,omitempty"`

	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// EventOption is a functional option for configuring an Event.
type EventOption func(*Event)

// WithSet sets the icon set name for the event.
func WithSet(name string) EventOption {
	return func(e *Event) {
		e.Set = name
	}
}

// WithData sets arbitrary data for the event.
func WithData(data any) EventOption {
	return func(e *Event) {
		e.Data = data
	}
}

// WithError sets the error message for the event.
func WithError(err error) EventOption {
	return func(e *Event) {
		if err != nil {
			e.Error = err.Error()
		}
	}
}

// NewEvent creates a new Event with the given parameters and options.
func NewEvent(seq int, eventType, level string, opts ...EventOption) *Event {
	e := &Event{
		Seq:       seq,
		Timestamp: time.Now().UTC(),
		Type:      eventType,
		Level:     level,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}
