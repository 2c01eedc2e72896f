// Package observability provides event-based observability for the
// assistant core. Subsystems emit Events to an Observer instead of logging
// directly, so the same stream can feed structured logs, the per-session
// event log, and durable audit sinks.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level represents event severity.
type Level int

const (
	LevelVerbose Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

// String returns the severity text for the level.
func (l Level) String() string {
	switch l {
	case LevelVerbose:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARN"
	default:
		return "ERROR"
	}
}

// SlogLevel maps this level to the corresponding slog.Level.
func (l Level) SlogLevel() slog.Level {
	switch l {
	case LevelVerbose:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// EventType identifies the kind of event. Each subsystem defines its own
// constants using this type (e.g. "turn.start", "capability.executed").
type EventType string

// Event is a structured observability event. Session carries the session
// identifier when the event belongs to a conversation; events outside any
// session (server start, config load) leave it empty.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Session   string
	Data      map[string]any
}

// Observer receives events from subsystems for logging or audit.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// NoOp discards all events.
type NoOp struct{}

func (NoOp) OnEvent(ctx context.Context, event Event) {}

// Multi fans an event out to every non-nil observer it was built with.
type Multi struct {
	observers []Observer
}

// NewMulti creates a Multi forwarding to all non-nil observers.
func NewMulti(observers ...Observer) *Multi {
	filtered := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		if obs != nil {
			filtered = append(filtered, obs)
		}
	}
	return &Multi{observers: filtered}
}

func (m *Multi) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}
