package reasoning

import (
	"context"
	"fmt"
	"sync"

	"github.com/tailored-agentic-units/assistant/core/protocol"
)

// Step is one scripted reasoning outcome: either a Turn or an error.
type Step struct {
	Turn *Turn
	Err  error
}

// Script is a Reasoner that replays a fixed sequence of steps. It is
// deterministic and records the histories it was called with, which makes
// orchestrator and transport behavior reproducible in tests and offline
// development.
type Script struct {
	mu        sync.Mutex
	steps     []Step
	calls     int
	histories [][]protocol.Message
}

// NewScript creates a Script replaying the given steps in order.
func NewScript(steps ...Step) *Script {
	return &Script{steps: steps}
}

// Say is a convenience Step producing a plain assistant utterance.
func Say(content string) Step {
	return Step{Turn: &Turn{Content: content}}
}

// Request is a convenience Step producing an utterance plus a capability
// request.
func Request(content, capabilityName, payload string) Step {
	return Step{Turn: &Turn{
		Content: content,
		Request: &protocol.CapabilityRequest{Capability: capabilityName, Payload: payload},
	}}
}

// Fail is a convenience Step producing a reasoning error.
func Fail(err error) Step {
	return Step{Err: err}
}

func (s *Script) Next(_ context.Context, history []protocol.Message, _ bool) (*Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.histories = append(s.histories, history)
	s.calls++
	if s.calls > len(s.steps) {
		return nil, fmt.Errorf("script exhausted after %d steps", len(s.steps))
	}

	step := s.steps[s.calls-1]
	if step.Err != nil {
		return nil, step.Err
	}
	return step.Turn, nil
}

// Calls returns how many times Next was invoked.
func (s *Script) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// History returns the conversation history passed to the nth call.
func (s *Script) History(n int) []protocol.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 0 || n >= len(s.histories) {
		return nil
	}
	return s.histories[n]
}
