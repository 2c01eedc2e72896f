// Package protocol defines the conversation types shared by the
// orchestrator, the capability layer, and the transport.
package protocol

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry in a session's conversation history.
// Content is markdown text. Insertion order is causal order: history is
// append-only and is never reordered or deduplicated by content equality,
// since distinct turns can legitimately produce identical assistant text.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewMessage creates a Message with the given role and content.
//
// Example:
//
//	msg := protocol.NewMessage(protocol.RoleUser, "list files")
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content}
}
