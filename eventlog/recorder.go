// Package eventlog records the structured event stream of each session:
// every turn, classification, confirmation, and capability execution,
// queryable per session over the transport and optionally mirrored to a
// durable SQLite sink. The core only ever writes; nothing in the
// orchestrator reads entries back.
package eventlog

import (
	"context"
	"sync"
	"time"

	"github.com/tailored-agentic-units/assistant/observability"
)

// Entry is one structured log record for a session.
type Entry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Kind      string         `json:"kind"`
	SessionID string         `json:"session_id"`
	Data      map[string]any `json:"data"`
}

// Sink receives every recorded entry for durable storage.
type Sink interface {
	Write(entry Entry) error
	Close() error
}

// Recorder is an observability.Observer that keeps per-session entries in
// memory, in arrival order, and forwards each to an optional Sink. Events
// without a session identifier are not recorded; they belong to the
// process log, not to any conversation.
type Recorder struct {
	mu   sync.RWMutex
	logs map[string][]Entry
	sink Sink
}

// NewRecorder creates a Recorder with an optional durable sink.
func NewRecorder(sink Sink) *Recorder {
	return &Recorder{
		logs: make(map[string][]Entry),
		sink: sink,
	}
}

func (r *Recorder) OnEvent(_ context.Context, event observability.Event) {
	if event.Session == "" {
		return
	}

	entry := Entry{
		Timestamp: event.Timestamp,
		Level:     event.Level.String(),
		Kind:      string(event.Type),
		SessionID: event.Session,
		Data:      event.Data,
	}

	r.mu.Lock()
	r.logs[event.Session] = append(r.logs[event.Session], entry)
	r.mu.Unlock()

	if r.sink != nil {
		// Sink failures must not disturb the turn that emitted the event.
		_ = r.sink.Write(entry)
	}
}

// SessionLog returns a copy of the entries recorded for a session, in
// arrival order. Unknown sessions yield an empty slice.
func (r *Recorder) SessionLog(sessionID string) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.logs[sessionID]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Clear drops the in-memory entries for a session. Sink contents are
// untouched.
func (r *Recorder) Clear(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.logs, sessionID)
}

// Close releases the sink, if any.
func (r *Recorder) Close() error {
	if r.sink == nil {
		return nil
	}
	return r.sink.Close()
}
