package history

import (
	"time"

	"github.com/rauldpena/delicia/backend/internal/model/chat"
)

// Metadata summarizes a conversation's activity. TotalMessages always equals
// the length of the live message list, also after cap eviction.
type Metadata struct {
	TotalMessages int       `json:"totalMessages"`
	LastActivity  time.Time `json:"lastActivity"`
}

// History is the per-session message log plus a copy of the latest context.
type History struct {
	SessionID string         `json:"sessionId"`
	UserID    string         `json:"userId,omitempty"`
	Messages  []chat.Message `json:"messages"`
	Context   *chat.Context  `json:"context"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Metadata  Metadata       `json:"metadata"`
}

// SessionSummary is the per-conversation row returned by Search.
type SessionSummary struct {
	SessionID    string    `json:"sessionId"`
	MessageCount int       `json:"messageCount"`
	LastMessage  string    `json:"lastMessage"`
	LastActivity time.Time `json:"lastActivity"`
	CurrentStep  chat.Step `json:"currentStep"`
	CartItems    int       `json:"cartItems"`
}

// Stats aggregates a single conversation.
type Stats struct {
	MessageCount          int `json:"messageCount"`
	DurationMinutes       int `json:"duration"`
	UserMessages          int `json:"userMessages"`
	AssistantMessages     int `json:"assistantMessages"`
	AverageResponseLength int `json:"averageResponseLength"`
}

// SearchCriteria filters conversations. Every field is optional; set fields
// combine with AND semantics. Zero time values leave the date range open.
type SearchCriteria struct {
	UserID      string
	DateFrom    time.Time
	DateTo      time.Time
	MinMessages int
	CurrentStep chat.Step
}

// StepCount pairs a conversation step with how many sessions sit on it.
type StepCount struct {
	Step  chat.Step `json:"step"`
	Count int       `json:"count"`
}

// GlobalStats aggregates every stored conversation.
type GlobalStats struct {
	TotalConversations             int         `json:"totalConversations"`
	ActiveConversations            int         `json:"activeConversations"`
	TotalMessages                  int         `json:"totalMessages"`
	AverageMessagesPerConversation int         `json:"averageMessagesPerConversation"`
	TopSteps                       []StepCount `json:"topSteps"`
}

// ExportMessage is one serialized message inside an export bundle.
type ExportMessage struct {
	Timestamp string `json:"timestamp"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Action    string `json:"action,omitempty"`
}

// ExportContext is the final context snapshot inside an export bundle.
type ExportContext struct {
	Step        chat.Step `json:"step"`
	CartItems   int       `json:"cartItems"`
	TotalAmount float64   `json:"totalAmount"`
}

// ExportDetail is the serialized, ISO-stamped form of a conversation.
type ExportDetail struct {
	SessionID    string          `json:"sessionId"`
	UserID       string          `json:"userId,omitempty"`
	StartTime    string          `json:"startTime"`
	EndTime      string          `json:"endTime"`
	Duration     string          `json:"duration"`
	MessageCount int             `json:"messageCount"`
	Messages     []ExportMessage `json:"messages"`
	FinalContext ExportContext   `json:"finalContext"`
}

// Export bundles the raw history with its serialized form.
type Export struct {
	Conversation *History     `json:"conversation"`
	Export       ExportDetail `json:"export"`
}
