package chat

import "time"

// Step tracks the customer's ordering progress within a session.
type Step string

const (
	StepGreeting   Step = "greeting"
	StepBrowsing   Step = "browsing"
	StepOrdering   Step = "ordering"
	StepConfirming Step = "confirming"
	StepCompleted  Step = "completed"
)

// Preferences captures per-session customer preferences.
type Preferences struct {
	Language            string   `json:"language"`
	DietaryRestrictions []string `json:"dietaryRestrictions,omitempty"`
}

// Context is the mutable ordering-progress state attached to a session.
// Exactly one context exists per active session; it owns the session's cart.
type Context struct {
	SessionID    string      `json:"sessionId"`
	UserID       string      `json:"userId,omitempty"`
	CurrentStep  Step        `json:"currentStep"`
	LastActivity time.Time   `json:"lastActivity"`
	Cart         *Cart       `json:"cart"`
	Preferences  Preferences `json:"preferences"`
}

// NewContext builds a fresh context at the greeting step with an empty cart
// and Spanish as the default language.
func NewContext(sessionID, userID string) *Context {
	return &Context{
		SessionID:    sessionID,
		UserID:       userID,
		CurrentStep:  StepGreeting,
		LastActivity: time.Now().UTC(),
		Cart:         NewCart(sessionID),
		Preferences:  Preferences{Language: "es"},
	}
}

// Clone returns a deep copy safe to hand to readers while the original keeps
// being mutated by the session's turn sequence.
func (c *Context) Clone() *Context {
	if c == nil {
		return nil
	}
	copied := *c
	copied.Cart = c.Cart.Clone()
	if c.Preferences.DietaryRestrictions != nil {
		copied.Preferences.DietaryRestrictions = append([]string(nil), c.Preferences.DietaryRestrictions...)
	}
	return &copied
}

// ContextPatch is a partial context update. Zero-valued fields leave the
// stored context untouched.
type ContextPatch struct {
	CurrentStep Step
	Cart        *Cart
}
