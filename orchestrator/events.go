package orchestrator

import "github.com/tailored-agentic-units/assistant/observability"

// Orchestrator event types emitted during a turn.
const (
	EventSessionCreated        observability.EventType = "session.created"
	EventTurnStart             observability.EventType = "turn.start"
	EventTurnComplete          observability.EventType = "turn.complete"
	EventCapabilityRequested   observability.EventType = "capability.requested"
	EventCapabilityExecuted    observability.EventType = "capability.executed"
	EventConfirmationRequested observability.EventType = "confirmation.requested"
	EventConfirmationConfirmed observability.EventType = "confirmation.confirmed"
	EventConfirmationDeclined  observability.EventType = "confirmation.declined"
	EventConfirmationAmbiguous observability.EventType = "confirmation.ambiguous"
	EventReasoningFailed       observability.EventType = "reasoning.failed"
)
