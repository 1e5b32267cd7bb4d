package session

import (
	"sync"
	"time"

	"github.com/rauldpena/delicia/backend/internal/model/chat"
)

// Store maps session ids to their conversation context. It is the single
// owner of context lifecycle: lazy creation on first message and age-based
// reaping. All state is in-memory; nothing survives the process.
type Store struct {
	mu       sync.RWMutex
	contexts map[string]*chat.Context
}

// NewStore bootstraps an empty context store.
func NewStore() *Store {
	return &Store{contexts: make(map[string]*chat.Context)}
}

// GetOrCreate returns the live context for sessionID, creating it at the
// greeting step when absent. LastActivity is stamped on every call, including
// for existing contexts. The returned pointer is the stored context itself;
// callers mutating it must serialize per session.
func (s *Store) GetOrCreate(sessionID, userID string) *chat.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ctx, ok := s.contexts[sessionID]; ok {
		ctx.LastActivity = time.Now().UTC()
		return ctx
	}

	ctx := chat.NewContext(sessionID, userID)
	s.contexts[sessionID] = ctx
	return ctx
}

// Update runs fn on the session's context while holding the store lock,
// creating the context at the greeting step when absent. Mutations of the
// context or its cart must go through here so that Get never observes a
// partially applied change. fn must not block or call back into the store.
func (s *Store) Update(sessionID, userID string, fn func(*chat.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, ok := s.contexts[sessionID]
	if !ok {
		ctx = chat.NewContext(sessionID, userID)
		s.contexts[sessionID] = ctx
	} else {
		ctx.LastActivity = time.Now().UTC()
	}
	fn(ctx)
}

// Get returns a deep copy of the stored context, or false when the session is
// unknown.
func (s *Store) Get(sessionID string) (*chat.Context, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, ok := s.contexts[sessionID]
	if !ok {
		return nil, false
	}
	return ctx.Clone(), true
}

// Patch shallow-merges the non-zero fields of patch into the stored context
// and refreshes LastActivity. Unknown sessions are a silent no-op; the caller
// is expected to have created the context first.
func (s *Store) Patch(sessionID string, patch chat.ContextPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, ok := s.contexts[sessionID]
	if !ok {
		return
	}
	if patch.CurrentStep != "" {
		ctx.CurrentStep = patch.CurrentStep
	}
	if patch.Cart != nil {
		ctx.Cart = patch.Cart
	}
	ctx.LastActivity = time.Now().UTC()
}

// ReapOlderThan removes every context idle for longer than maxAge and returns
// the removed session ids so callers can release per-session resources. Safe
// to call repeatedly; intended for a recurring timer owned by the host.
func (s *Store) ReapOlderThan(maxAge time.Duration) []string {
	cutoff := time.Now().UTC().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for sessionID, ctx := range s.contexts {
		if ctx.LastActivity.Before(cutoff) {
			delete(s.contexts, sessionID)
			removed = append(removed, sessionID)
		}
	}
	return removed
}

// Len reports the number of active contexts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contexts)
}
