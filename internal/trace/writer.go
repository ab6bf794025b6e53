package trace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// EventWriter writes events to a JSONL file. A nil *EventWriter discards events.
type EventWriter struct {
	file *os.File
	seq  int
	mu   sync.Mutex
}

// NewEventWriter creates (truncating) the event file at path.
func NewEventWriter(path string) (*EventWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create events directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open event file: %w", err)
	}

	return &EventWriter{file: file}, nil
}

// Write writes an event to the event stream.
func (w *EventWriter) Write(eventType, level string, opts ...EventOption) error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	w.seq++
	data, err := json.Marshal(NewEvent(w.seq, eventType, level, opts...))
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := w.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

// Close flushes and closes the event file.
func (w *EventWriter) Close() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	if err := w.file.Sync(); err != nil {
		w.file.Close()
		w.file = nil
		return err
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// Seq returns the current sequence number.
func (w *EventWriter) Seq() int {
	if w == nil {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.seq
}
