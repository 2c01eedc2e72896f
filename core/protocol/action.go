package protocol

// CapabilityRequest is a capability invocation requested by the reasoning
// function: a registered capability name plus the payload to hand to it.
// For the shell capability the payload is a single-line command string; it
// is rendered back to the user verbatim in confirmation prompts and in
// executed result blocks.
type CapabilityRequest struct {
	Capability string `json:"capability"`
	Payload    string `json:"payload"`
}

// PendingAction is a parked, unexecuted capability request awaiting
// explicit user approval. At most one exists per session. TurnIndex is the
// session turn at which the request was raised.
type PendingAction struct {
	CapabilityRequest
	TurnIndex int `json:"turn_index"`
}
