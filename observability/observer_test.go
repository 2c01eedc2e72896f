package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/tailored-agentic-units/assistant/observability"
)

// recordingObserver collects the events it receives.
type recordingObserver struct {
	events []observability.Event
}

func (r *recordingObserver) OnEvent(_ context.Context, event observability.Event) {
	r.events = append(r.events, event)
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level observability.Level
		want  string
	}{
		{observability.LevelVerbose, "DEBUG"},
		{observability.LevelInfo, "INFO"},
		{observability.LevelWarning, "WARN"},
		{observability.LevelError, "ERROR"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestLevelSlogLevel(t *testing.T) {
	tests := []struct {
		level observability.Level
		want  slog.Level
	}{
		{observability.LevelVerbose, slog.LevelDebug},
		{observability.LevelInfo, slog.LevelInfo},
		{observability.LevelWarning, slog.LevelWarn},
		{observability.LevelError, slog.LevelError},
	}
	for _, tt := range tests {
		if got := tt.level.SlogLevel(); got != tt.want {
			t.Errorf("Level(%d).SlogLevel() = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestSlogObserverEmitsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs := observability.NewSlogObserver(logger)

	obs.OnEvent(context.Background(), observability.Event{
		Type:      "capability.executed",
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "orchestrator",
		Session:   "s1",
		Data:      map[string]any{"capability": "shell", "ok": true},
	})

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if record["msg"] != "capability.executed" {
		t.Errorf("msg = %v, want the event type", record["msg"])
	}
	if record["source"] != "orchestrator" || record["session"] != "s1" {
		t.Errorf("record = %v, want source and session attributes", record)
	}
	if record["capability"] != "shell" || record["ok"] != true {
		t.Errorf("record = %v, want flattened data attributes", record)
	}
}

func TestSlogObserverOmitsEmptySession(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	obs := observability.NewSlogObserver(logger)

	obs.OnEvent(context.Background(), observability.Event{
		Type:   "server.start",
		Level:  observability.LevelInfo,
		Source: "server",
	})

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if _, exists := record["session"]; exists {
		t.Errorf("record = %v, want no session attribute for sessionless events", record)
	}
}

func TestMultiFansOut(t *testing.T) {
	first := &recordingObserver{}
	second := &recordingObserver{}
	multi := observability.NewMulti(first, nil, second)

	multi.OnEvent(context.Background(), observability.Event{Type: "turn.start"})

	if len(first.events) != 1 || len(second.events) != 1 {
		t.Errorf("fan-out reached (%d, %d) observers, want both", len(first.events), len(second.events))
	}
}
