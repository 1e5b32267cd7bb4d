package chat

import "time"

// Message roles as stored in conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single conversation turn. Messages are immutable once appended
// to a session's history.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"sessionId"`
	Action    string    `json:"action,omitempty"`
	Metadata  *Metadata `json:"metadata,omitempty"`
}

// Metadata carries a snapshot of the conversation context at send time.
type Metadata struct {
	Context *Context `json:"context,omitempty"`
}
