package reasoning_test

import (
	"context"
	"errors"
	"testing"

	"github.com/tailored-agentic-units/assistant/core/protocol"
	"github.com/tailored-agentic-units/assistant/reasoning"
)

func TestScriptReplaysSteps(t *testing.T) {
	failure := errors.New("scripted failure")
	script := reasoning.NewScript(
		reasoning.Say("one"),
		reasoning.Request("two", "shell", "ls"),
		reasoning.Fail(failure),
	)
	ctx := context.Background()

	turn, err := script.Next(ctx, nil, true)
	if err != nil || turn.Content != "one" || turn.Request != nil {
		t.Errorf("step 1 = (%+v, %v), want plain %q", turn, err, "one")
	}

	turn, err = script.Next(ctx, nil, true)
	if err != nil {
		t.Fatalf("step 2 unexpected error: %v", err)
	}
	if turn.Request == nil || turn.Request.Capability != "shell" || turn.Request.Payload != "ls" {
		t.Errorf("step 2 request = %+v, want shell/ls", turn.Request)
	}

	if _, err = script.Next(ctx, nil, true); !errors.Is(err, failure) {
		t.Errorf("step 3 error = %v, want %v", err, failure)
	}

	if _, err = script.Next(ctx, nil, true); err == nil {
		t.Error("exhausted script succeeded, want error")
	}

	if got := script.Calls(); got != 4 {
		t.Errorf("Calls() = %d, want 4", got)
	}
}

func TestScriptRecordsHistories(t *testing.T) {
	script := reasoning.NewScript(reasoning.Say("a"), reasoning.Say("b"))
	ctx := context.Background()

	first := []protocol.Message{protocol.NewMessage(protocol.RoleUser, "hello")}
	if _, err := script.Next(ctx, first, true); err != nil {
		t.Fatal(err)
	}
	if _, err := script.Next(ctx, nil, true); err != nil {
		t.Fatal(err)
	}

	got := script.History(0)
	if len(got) != 1 || got[0].Content != "hello" {
		t.Errorf("History(0) = %+v, want the first call's history", got)
	}
	if script.History(5) != nil {
		t.Error("History(5) != nil for out-of-range call")
	}
}
