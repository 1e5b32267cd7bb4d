package history

import (
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rauldpena/delicia/backend/internal/model/chat"
)

// DefaultMaxMessages caps how many messages a session retains before the
// oldest are evicted.
const DefaultMaxMessages = 100

const activeWindow = 24 * time.Hour

// Store keeps every conversation's message log in memory, keyed by session id.
// Read accessors return copies and report unknown sessions with a false flag
// rather than an error.
type Store struct {
	mu            sync.RWMutex
	conversations map[string]*History
	maxMessages   int
}

// NewStore bootstraps an empty history store. maxMessages values below one
// fall back to DefaultMaxMessages.
func NewStore(maxMessages int) *Store {
	if maxMessages < 1 {
		maxMessages = DefaultMaxMessages
	}
	return &Store{
		conversations: make(map[string]*History),
		maxMessages:   maxMessages,
	}
}

// AddMessage appends message to the session's log, creating the history
// record on first write. The stored context snapshot is overwritten with a
// copy of ctx. When the log exceeds the cap, the oldest messages are dropped
// so exactly the cap remains.
func (s *Store) AddMessage(sessionID string, message chat.Message, ctx *chat.Context) {
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.conversations[sessionID]
	if !ok {
		h = &History{
			SessionID: sessionID,
			CreatedAt: now,
		}
		if ctx != nil {
			h.UserID = ctx.UserID
		}
		s.conversations[sessionID] = h
	}

	h.Messages = append(h.Messages, message)
	if len(h.Messages) > s.maxMessages {
		evicted := len(h.Messages) - s.maxMessages
		h.Messages = append([]chat.Message(nil), h.Messages[evicted:]...)
		log.Printf("[history] session=%s evicted %d oldest messages", sessionID, evicted)
	}

	h.Context = ctx.Clone()
	h.UpdatedAt = now
	h.Metadata.TotalMessages = len(h.Messages)
	h.Metadata.LastActivity = now
}

// Get returns a copy of the session's history, or false when unknown.
func (s *Store) Get(sessionID string) (*History, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.conversations[sessionID]
	if !ok {
		return nil, false
	}
	return h.copy(), true
}

// Recent returns the last limit messages of the session, oldest first. An
// unknown session yields an empty slice.
func (s *Store) Recent(sessionID string, limit int) []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.conversations[sessionID]
	if !ok {
		return nil
	}
	start := 0
	if limit > 0 && len(h.Messages) > limit {
		start = len(h.Messages) - limit
	}
	return append([]chat.Message(nil), h.Messages[start:]...)
}

// Summary renders a one-line digest of the conversation: message count, last
// user message truncated to 100 characters, current step and cart size.
func (s *Store) Summary(sessionID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.conversations[sessionID]
	if !ok || len(h.Messages) == 0 {
		return "", false
	}

	lastUser := ""
	for i := len(h.Messages) - 1; i >= 0; i-- {
		if h.Messages[i].Role == chat.RoleUser {
			lastUser = h.Messages[i].Content
			break
		}
	}

	step := chat.Step("")
	cartItems := 0
	if h.Context != nil {
		step = h.Context.CurrentStep
		if h.Context.Cart != nil {
			cartItems = h.Context.Cart.TotalItems
		}
	}

	return fmt.Sprintf("Conversación activa con %d mensajes. Último mensaje del usuario: %q. Estado actual: %s. Items en carrito: %d.",
		len(h.Messages), truncate(lastUser, 100), step, cartItems), true
}

// Stats aggregates the conversation's message counts, duration and average
// assistant response length.
func (s *Store) Stats(sessionID string) (Stats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.conversations[sessionID]
	if !ok {
		return Stats{}, false
	}

	userCount := 0
	assistantCount := 0
	assistantChars := 0
	for _, msg := range h.Messages {
		switch msg.Role {
		case chat.RoleUser:
			userCount++
		case chat.RoleAssistant:
			assistantCount++
			assistantChars += len(msg.Content)
		}
	}

	avgLen := 0
	if assistantCount > 0 {
		avgLen = int(math.Round(float64(assistantChars) / float64(assistantCount)))
	}

	return Stats{
		MessageCount:          len(h.Messages),
		DurationMinutes:       durationMinutes(h.CreatedAt, h.UpdatedAt),
		UserMessages:          userCount,
		AssistantMessages:     assistantCount,
		AverageResponseLength: avgLen,
	}, true
}

// Search returns a summary for every conversation matching criteria, most
// recently active first. Date filters compare against CreatedAt.
func (s *Store) Search(criteria SearchCriteria) []SessionSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []SessionSummary
	for sessionID, h := range s.conversations {
		if criteria.UserID != "" && h.UserID != criteria.UserID {
			continue
		}
		if !criteria.DateFrom.IsZero() && h.CreatedAt.Before(criteria.DateFrom) {
			continue
		}
		if !criteria.DateTo.IsZero() && h.CreatedAt.After(criteria.DateTo) {
			continue
		}
		if criteria.MinMessages > 0 && len(h.Messages) < criteria.MinMessages {
			continue
		}
		if criteria.CurrentStep != "" && (h.Context == nil || h.Context.CurrentStep != criteria.CurrentStep) {
			continue
		}

		summary := SessionSummary{
			SessionID:    sessionID,
			MessageCount: len(h.Messages),
			LastActivity: h.UpdatedAt,
		}
		if len(h.Messages) > 0 {
			summary.LastMessage = truncate(h.Messages[len(h.Messages)-1].Content, 100)
		}
		if h.Context != nil {
			summary.CurrentStep = h.Context.CurrentStep
			if h.Context.Cart != nil {
				summary.CartItems = h.Context.Cart.TotalItems
			}
		}
		results = append(results, summary)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].LastActivity.After(results[j].LastActivity)
	})
	return results
}

// ExportSession returns the raw history together with its serialized form, or
// false when the session is unknown.
func (s *Store) ExportSession(sessionID string) (*Export, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.conversations[sessionID]
	if !ok {
		return nil, false
	}

	messages := make([]ExportMessage, 0, len(h.Messages))
	for _, msg := range h.Messages {
		messages = append(messages, ExportMessage{
			Timestamp: msg.Timestamp.UTC().Format(time.RFC3339),
			Role:      msg.Role,
			Content:   msg.Content,
			Action:    msg.Action,
		})
	}

	final := ExportContext{}
	if h.Context != nil {
		final.Step = h.Context.CurrentStep
		if h.Context.Cart != nil {
			final.CartItems = h.Context.Cart.TotalItems
			final.TotalAmount = h.Context.Cart.TotalAmount
		}
	}

	return &Export{
		Conversation: h.copy(),
		Export: ExportDetail{
			SessionID:    sessionID,
			UserID:       h.UserID,
			StartTime:    h.CreatedAt.Format(time.RFC3339),
			EndTime:      h.UpdatedAt.Format(time.RFC3339),
			Duration:     fmt.Sprintf("%d minutos", durationMinutes(h.CreatedAt, h.UpdatedAt)),
			MessageCount: len(h.Messages),
			Messages:     messages,
			FinalContext: final,
		},
	}, true
}

// DeleteSession removes the session's history. It reports whether a record
// existed.
func (s *Store) DeleteSession(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[sessionID]; !ok {
		return false
	}
	delete(s.conversations, sessionID)
	return true
}

// SweepStale deletes every history not updated within retention and returns
// how many were removed. Repeated sweeps are safe.
func (s *Store) SweepStale(retention time.Duration) int {
	cutoff := time.Now().UTC().Add(-retention)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for sessionID, h := range s.conversations {
		if h.UpdatedAt.Before(cutoff) {
			delete(s.conversations, sessionID)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("[history] sweep removed %d stale conversations", removed)
	}
	return removed
}

// GlobalStats aggregates every stored conversation.
func (s *Store) GlobalStats() GlobalStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := time.Now().UTC().Add(-activeWindow)
	totalMessages := 0
	active := 0
	stepCounts := make(map[chat.Step]int)

	for _, h := range s.conversations {
		totalMessages += len(h.Messages)
		if h.UpdatedAt.After(cutoff) {
			active++
		}
		if h.Context != nil {
			stepCounts[h.Context.CurrentStep]++
		}
	}

	topSteps := make([]StepCount, 0, len(stepCounts))
	for step, count := range stepCounts {
		topSteps = append(topSteps, StepCount{Step: step, Count: count})
	}
	sort.Slice(topSteps, func(i, j int) bool {
		if topSteps[i].Count != topSteps[j].Count {
			return topSteps[i].Count > topSteps[j].Count
		}
		return topSteps[i].Step < topSteps[j].Step
	})
	if len(topSteps) > 5 {
		topSteps = topSteps[:5]
	}

	avg := 0
	if len(s.conversations) > 0 {
		avg = int(math.Round(float64(totalMessages) / float64(len(s.conversations))))
	}

	return GlobalStats{
		TotalConversations:             len(s.conversations),
		ActiveConversations:            active,
		TotalMessages:                  totalMessages,
		AverageMessagesPerConversation: avg,
		TopSteps:                       topSteps,
	}
}

// ActiveSessionIDs lists every session updated within the last 24 hours.
func (s *Store) ActiveSessionIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := time.Now().UTC().Add(-activeWindow)
	var ids []string
	for sessionID, h := range s.conversations {
		if h.UpdatedAt.After(cutoff) {
			ids = append(ids, sessionID)
		}
	}
	sort.Strings(ids)
	return ids
}

// Has reports whether a history exists for the session.
func (s *Store) Has(sessionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.conversations[sessionID]
	return ok
}

func (h *History) copy() *History {
	copied := *h
	copied.Messages = append([]chat.Message(nil), h.Messages...)
	copied.Context = h.Context.Clone()
	return &copied
}

func durationMinutes(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Minutes()))
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
