// Package reasoning defines the external reasoning function the
// orchestrator consults when a turn is a plain message: conversation
// history in, next assistant utterance plus zero-or-one requested
// capability invocation out. The orchestrator depends only on the
// Reasoner interface; Client adapts any OpenAI-chat-completions-compatible
// endpoint, and Script provides a deterministic double for tests and
// offline development.
package reasoning

import (
	"context"

	"github.com/tailored-agentic-units/assistant/core/protocol"
)

// Turn is one reasoning-function output.
type Turn struct {
	// Content is the next assistant utterance. May be empty when the
	// function's whole output is a capability request.
	Content string
	// Request is the capability invocation the assistant wants to make,
	// or nil.
	Request *protocol.CapabilityRequest
}

// Reasoner produces the next assistant turn from the conversation
// history. The orchestrator blocks on Next within the turn; failures are
// surfaced to the user as recoverable assistant messages, never as system
// errors.
type Reasoner interface {
	Next(ctx context.Context, history []protocol.Message, safeMode bool) (*Turn, error)
}
