// Package orchestrator implements the turn state machine that drives a
// conversation: it persists the user's utterance, resolves pending
// confirmations, consults the external reasoning function, gates requested
// capability invocations through the safety classifier, and dispatches
// approved invocations to the execution sandbox.
//
//	o, err := orchestrator.New(store, reasoner)
//	turn, err := o.Advance(ctx, sessionID, "list files", true)
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/tailored-agentic-units/assistant/core/protocol"
	"github.com/tailored-agentic-units/assistant/observability"
	"github.com/tailored-agentic-units/assistant/reasoning"
	"github.com/tailored-agentic-units/assistant/safety"
	"github.com/tailored-agentic-units/assistant/sandbox"
	"github.com/tailored-agentic-units/assistant/session"
)

// Turn is the outcome of one Advance call: the assistant messages
// produced by the turn, and the pending action descriptor when the turn
// ended by requesting confirmation.
type Turn struct {
	Messages []protocol.Message
	Pending  *protocol.PendingAction
}

// Option configures an Orchestrator after construction.
type Option func(*Orchestrator)

// WithClassifier overrides the default-policy classifier.
func WithClassifier(c *safety.Classifier) Option {
	return func(o *Orchestrator) { o.classifier = c }
}

// WithRunner overrides the default execution sandbox.
func WithRunner(r *sandbox.Runner) Option {
	return func(o *Orchestrator) { o.runner = r }
}

// WithObserver attaches an observer for turn events.
func WithObserver(obs observability.Observer) Option {
	return func(o *Orchestrator) { o.observer = obs }
}

// Orchestrator is the single mutation path for session state. Each
// session's turns execute one at a time under the session's turn lock;
// distinct sessions advance concurrently.
type Orchestrator struct {
	sessions   *session.Store
	reasoner   reasoning.Reasoner
	classifier *safety.Classifier
	runner     *sandbox.Runner
	observer   observability.Observer
}

// New creates an Orchestrator over the given session store and reasoning
// function. Without options it uses the default safety policy, a default
// sandbox, and no observer.
func New(sessions *session.Store, reasoner reasoning.Reasoner, opts ...Option) (*Orchestrator, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if reasoner == nil {
		return nil, fmt.Errorf("reasoner is required")
	}

	cfg := sandbox.DefaultConfig()
	o := &Orchestrator{
		sessions:   sessions,
		reasoner:   reasoner,
		classifier: safety.NewClassifier(safety.DefaultPolicy()),
		runner:     sandbox.NewRunner(&cfg),
		observer:   observability.NoOp{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// StartSession creates a new session. Any previous session the client
// held simply goes unused; its parked confirmation can never be resolved
// again.
func (o *Orchestrator) StartSession(ctx context.Context) *session.Session {
	s := o.sessions.Create()
	o.emit(ctx, EventSessionCreated, observability.LevelInfo, s.ID(), nil)
	return s
}

// Advance runs one turn for the session: append the user utterance, then
// either resolve the pending confirmation or consult the reasoning
// function and gate any requested capability invocation.
//
// The user utterance is persisted before any downstream processing, so a
// failing turn never loses the user's input. While a pending confirmation
// exists the utterance is always interpreted as a confirmation reply and
// the reasoning function is never consulted; this is a precondition of
// the handshake, not a heuristic.
func (o *Orchestrator) Advance(ctx context.Context, sessionID, userText string, safeMode bool) (*Turn, error) {
	sess, err := o.sessions.Lookup(sessionID)
	if err != nil {
		return nil, err
	}

	turnIndex := sess.BeginTurn()
	defer sess.EndTurn()

	o.emit(ctx, EventTurnStart, observability.LevelVerbose, sessionID, map[string]any{
		"turn":      turnIndex,
		"safe_mode": safeMode,
	})

	sess.Append(protocol.NewMessage(protocol.RoleUser, userText))

	var turn *Turn
	if pending, exists := sess.Pending(); exists {
		turn, err = o.resolveConfirmation(ctx, sess, pending, userText)
	} else {
		turn, err = o.reason(ctx, sess, turnIndex, safeMode)
	}
	if err != nil {
		return nil, err
	}

	o.emit(ctx, EventTurnComplete, observability.LevelVerbose, sessionID, map[string]any{
		"turn":     turnIndex,
		"messages": len(turn.Messages),
		"pending":  turn.Pending != nil,
	})
	return turn, nil
}

// History returns the session's conversation history.
func (o *Orchestrator) History(sessionID string) ([]protocol.Message, error) {
	sess, err := o.sessions.Lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Messages(), nil
}

// PendingAction returns the session's parked capability request, if any.
func (o *Orchestrator) PendingAction(sessionID string) (protocol.PendingAction, bool, error) {
	sess, err := o.sessions.Lookup(sessionID)
	if err != nil {
		return protocol.PendingAction{}, false, err
	}
	pending, exists := sess.Pending()
	return pending, exists, nil
}

// resolveConfirmation interprets the utterance against the fixed
// confirmation grammar. Affirmative runs the parked request exactly as it
// was approved; negative discards it; anything else is rejected as
// ambiguous with the pending state preserved for another attempt. The
// reasoning function is never involved, so the executed request cannot
// drift from what the user saw.
func (o *Orchestrator) resolveConfirmation(ctx context.Context, sess *session.Session, pending protocol.PendingAction, userText string) (*Turn, error) {
	confirmed, recognized := ParseConfirmation(userText)
	if !recognized {
		o.emit(ctx, EventConfirmationAmbiguous, observability.LevelWarning, sess.ID(), map[string]any{
			"capability": pending.Capability,
			"reply":      userText,
		})
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousConfirmation, userText)
	}

	sess.ClearPending()

	if !confirmed {
		o.emit(ctx, EventConfirmationDeclined, observability.LevelInfo, sess.ID(), map[string]any{
			"capability": pending.Capability,
			"payload":    pending.Payload,
		})
		msg := protocol.NewMessage(protocol.RoleAssistant, declinedText)
		sess.Append(msg)
		return &Turn{Messages: []protocol.Message{msg}}, nil
	}

	o.emit(ctx, EventConfirmationConfirmed, observability.LevelInfo, sess.ID(), map[string]any{
		"capability": pending.Capability,
		"payload":    pending.Payload,
	})

	result := o.runner.Run(ctx, pending.Capability, pending.Payload)
	o.emit(ctx, EventCapabilityExecuted, observability.LevelInfo, sess.ID(), map[string]any{
		"capability": pending.Capability,
		"ok":         result.OK,
		"elapsed":    result.Elapsed.String(),
	})

	msg := renderResult(pending.CapabilityRequest, result)
	sess.Append(msg)
	return &Turn{Messages: []protocol.Message{msg}}, nil
}

// reason consults the reasoning function and handles its optional
// capability request.
func (o *Orchestrator) reason(ctx context.Context, sess *session.Session, turnIndex int, safeMode bool) (*Turn, error) {
	next, err := o.reasoner.Next(ctx, sess.Messages(), safeMode)
	if err != nil {
		o.emit(ctx, EventReasoningFailed, observability.LevelError, sess.ID(), map[string]any{
			"error": err.Error(),
		})
		msg := protocol.NewMessage(protocol.RoleAssistant, renderReasoningFailure(err))
		sess.Append(msg)
		return &Turn{Messages: []protocol.Message{msg}}, nil
	}

	if next.Request == nil {
		msg := protocol.NewMessage(protocol.RoleAssistant, next.Content)
		sess.Append(msg)
		return &Turn{Messages: []protocol.Message{msg}}, nil
	}

	req := *next.Request
	decision := o.classifier.Classify(req.Capability, req.Payload)
	o.emit(ctx, EventCapabilityRequested, observability.LevelInfo, sess.ID(), map[string]any{
		"capability": req.Capability,
		"payload":    req.Payload,
		"decision":   string(decision),
		"safe_mode":  safeMode,
	})

	if safeMode && decision == safety.NeedsConfirmation {
		pending := protocol.PendingAction{CapabilityRequest: req, TurnIndex: turnIndex}
		sess.SetPending(pending)

		msg := protocol.NewMessage(protocol.RoleAssistant, renderConfirmationPrompt(next.Content, req))
		sess.Append(msg)

		o.emit(ctx, EventConfirmationRequested, observability.LevelInfo, sess.ID(), map[string]any{
			"capability": req.Capability,
			"payload":    req.Payload,
		})
		return &Turn{Messages: []protocol.Message{msg}, Pending: &pending}, nil
	}

	var messages []protocol.Message
	if next.Content != "" {
		msg := protocol.NewMessage(protocol.RoleAssistant, next.Content)
		sess.Append(msg)
		messages = append(messages, msg)
	}

	result := o.runner.Run(ctx, req.Capability, req.Payload)
	o.emit(ctx, EventCapabilityExecuted, observability.LevelInfo, sess.ID(), map[string]any{
		"capability": req.Capability,
		"ok":         result.OK,
		"elapsed":    result.Elapsed.String(),
	})

	msg := renderResult(req, result)
	sess.Append(msg)
	messages = append(messages, msg)
	return &Turn{Messages: messages}, nil
}

func (o *Orchestrator) emit(ctx context.Context, t observability.EventType, level observability.Level, sessionID string, data map[string]any) {
	o.observer.OnEvent(ctx, observability.Event{
		Type:      t,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "orchestrator",
		Session:   sessionID,
		Data:      data,
	})
}
