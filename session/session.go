// Package session owns per-session conversation state: the ordered
// message history and the at-most-one pending confirmation. Sessions are
// created through a keyed Store and are only ever mutated by the turn
// orchestrator, one turn at a time under the session's exclusive turn
// lock.
package session

import (
	"errors"
	"sync"

	"github.com/tailored-agentic-units/assistant/core/protocol"
)

// ErrUnknownSession is returned when a session identifier does not
// resolve to a live session.
var ErrUnknownSession = errors.New("unknown session")

// Session holds one conversation's state. Two locks are involved: the
// turn lock (BeginTurn/EndTurn) serializes whole orchestrator turns so no
// two turns for the same session overlap, and an internal mutex guards
// field access so readers outside a turn (transport rendering the
// history) stay consistent.
type Session struct {
	id string

	turn sync.Mutex

	mu       sync.RWMutex
	messages []protocol.Message
	pending  *protocol.PendingAction
	turns    int
}

// ID returns the unique session identifier.
func (s *Session) ID() string {
	return s.id
}

// BeginTurn acquires the exclusive turn lock and returns the zero-based
// index of the turn being started. A message arriving while another turn
// for the same session is in flight blocks here and is processed after
// the running turn completes.
func (s *Session) BeginTurn() int {
	s.turn.Lock()

	s.mu.Lock()
	defer s.mu.Unlock()
	index := s.turns
	s.turns++
	return index
}

// EndTurn releases the turn lock.
func (s *Session) EndTurn() {
	s.turn.Unlock()
}

// Append adds a message to the conversation history.
func (s *Session) Append(msg protocol.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// Messages returns a defensive copy of the conversation history.
func (s *Session) Messages() []protocol.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make([]protocol.Message, len(s.messages))
	copy(copied, s.messages)
	return copied
}

// Len returns the number of messages in the history.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Pending returns the parked capability request, if any.
func (s *Session) Pending() (protocol.PendingAction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.pending == nil {
		return protocol.PendingAction{}, false
	}
	return *s.pending, true
}

// SetPending parks a capability request awaiting approval. The invariant
// of at most one pending confirmation per session holds because turns are
// serialized and every turn that reads the pending state either clears it
// or leaves it untouched before a new one can be set.
func (s *Session) SetPending(action protocol.PendingAction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &action
}

// ClearPending removes the parked request, if any.
func (s *Session) ClearPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}
