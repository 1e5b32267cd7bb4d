// Package assistant is the top of the conversational ordering engine: it
// resolves the session, logs the user message, asks the response engine for a
// reply, applies the context patch and logs the assistant message. The whole
// turn runs under a per-session lock so concurrent messages for one session
// cannot lose updates.
package assistant

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rauldpena/delicia/backend/internal/model/chat"
	"github.com/rauldpena/delicia/backend/internal/service/ai"
	"github.com/rauldpena/delicia/backend/internal/service/history"
	"github.com/rauldpena/delicia/backend/internal/service/session"
	"github.com/rauldpena/delicia/backend/internal/service/tools"
)

// Sentinel errors surfaced to the host transport layer.
var (
	ErrMessageRequired = errors.New("message is required")
	ErrProcessing      = errors.New("error procesando tu mensaje, por favor intenta de nuevo")
)

// OrderNotifier receives confirmed orders, typically to broadcast them to
// realtime listeners. Nil disables notification.
type OrderNotifier interface {
	NotifyOrderConfirmed(order *tools.Order)
}

// ResultContext is the context excerpt attached to every reply.
type ResultContext struct {
	SessionID   string     `json:"sessionId"`
	CurrentStep chat.Step  `json:"currentStep"`
	Cart        *chat.Cart `json:"cart"`
}

// Result is the unified reply returned to the host.
type Result struct {
	Message   string        `json:"message"`
	SessionID string        `json:"sessionId"`
	Action    ai.Action     `json:"action,omitempty"`
	Data      any           `json:"data,omitempty"`
	Context   ResultContext `json:"context"`
}

// Service wires the stores, the response engine and the tool surface.
type Service struct {
	sessions *session.Store
	history  *history.Store
	engine   *ai.Engine
	tools    *tools.Tools
	notifier OrderNotifier

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New constructs the orchestrator. notifier may be nil.
func New(sessions *session.Store, hist *history.Store, engine *ai.Engine, t *tools.Tools, notifier OrderNotifier) *Service {
	return &Service{
		sessions: sessions,
		history:  hist,
		engine:   engine,
		tools:    t,
		notifier: notifier,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Handle processes one customer message. An empty sessionID starts a new
// session with a generated id. Unexpected failures are caught here and
// surfaced as a single generic error with no partial writes visible.
func (s *Service) Handle(ctx context.Context, message, sessionID, userID string) (result *Result, err error) {
	if message == "" {
		return nil, ErrMessageRequired
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[assistant] session=%s panic during handle: %v", sessionID, r)
			result = nil
			err = ErrProcessing
		}
	}()

	unlock := s.lockSession(sessionID)
	defer unlock()

	conv := s.sessions.GetOrCreate(sessionID, userID)
	now := time.Now().UTC()

	s.history.AddMessage(sessionID, chat.Message{
		Role:      chat.RoleUser,
		Content:   message,
		Timestamp: now,
		SessionID: sessionID,
	}, conv)

	resp := s.engine.Respond(ctx, message, conv)

	patch := chat.ContextPatch{}
	if resp.Patch != nil {
		patch = *resp.Patch
	}
	// Patch also refreshes LastActivity, so it runs every turn.
	s.sessions.Patch(sessionID, patch)

	assistantMsg := chat.Message{
		Role:      chat.RoleAssistant,
		Content:   resp.Text,
		Timestamp: time.Now().UTC(),
		SessionID: sessionID,
		Action:    string(resp.Action),
		Metadata:  &chat.Metadata{Context: conv.Clone()},
	}
	s.history.AddMessage(sessionID, assistantMsg, conv)

	return &Result{
		Message:   resp.Text,
		SessionID: sessionID,
		Action:    resp.Action,
		Context: ResultContext{
			SessionID:   sessionID,
			CurrentStep: conv.CurrentStep,
			Cart:        conv.Cart.Clone(),
		},
	}, nil
}

// ConfirmOrder confirms the session's cart, clears it and notifies realtime
// listeners. The result carries the user-facing confirmation text; order is
// nil when the cart was empty.
func (s *Service) ConfirmOrder(sessionID string) (tools.Result, *tools.Order) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	res, order := s.tools.ConfirmOrder(sessionID)
	if order != nil {
		s.sessions.Patch(sessionID, chat.ContextPatch{CurrentStep: chat.StepCompleted})
		if s.notifier != nil {
			s.notifier.NotifyOrderConfirmed(order)
		}
	}
	return res, order
}

// GetContext returns a copy of the session's context.
func (s *Service) GetContext(sessionID string) (*chat.Context, bool) {
	return s.sessions.Get(sessionID)
}

// GetHistory returns a copy of the session's conversation history.
func (s *Service) GetHistory(sessionID string) (*history.History, bool) {
	return s.history.Get(sessionID)
}

// GetStats aggregates the session's conversation.
func (s *Service) GetStats(sessionID string) (history.Stats, bool) {
	return s.history.Stats(sessionID)
}

// Search lists conversation summaries matching criteria.
func (s *Service) Search(criteria history.SearchCriteria) []history.SessionSummary {
	return s.history.Search(criteria)
}

// Export returns the session's export bundle.
func (s *Service) Export(sessionID string) (*history.Export, bool) {
	return s.history.ExportSession(sessionID)
}

// GlobalStats aggregates every stored conversation.
func (s *Service) GlobalStats() history.GlobalStats {
	return s.history.GlobalStats()
}

// lockSession serializes the whole turn for one session id.
func (s *Service) lockSession(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// releaseLocks drops the lock entries for reaped sessions so the map does not
// grow with every session the process has ever seen. A lock still held by an
// in-flight turn is left alone; the next reap gets it.
func (s *Service) releaseLocks(sessionIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sessionID := range sessionIDs {
		if l, ok := s.locks[sessionID]; ok && l.TryLock() {
			delete(s.locks, sessionID)
			l.Unlock()
		}
	}
}
