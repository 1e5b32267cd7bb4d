// Package ai decides how each customer message gets answered: through the
// external language-model backend when one is configured and healthy, and
// through the deterministic template generator otherwise. Backend failures
// never reach the caller; they degrade silently to the fallback path.
package ai

import (
	"context"
	"log"

	"github.com/rauldpena/delicia/backend/internal/model/chat"
)

// TextGenerator is the backend side of the two-stage strategy. *Client
// satisfies it; tests substitute their own.
type TextGenerator interface {
	Generate(ctx context.Context, message string, conv *chat.Context) (string, error)
}

// Engine normalizes backend and fallback output into a single Response shape.
type Engine struct {
	backend  TextGenerator
	fallback *Generator
}

// NewEngine wires the engine. backend may be nil, in which case every turn
// uses the fallback generator.
func NewEngine(backend TextGenerator, fallback *Generator) *Engine {
	return &Engine{backend: backend, fallback: fallback}
}

// Respond produces the reply for one turn. The backend path runs action
// detection over the returned text; any backend error falls through to the
// fallback generator without surfacing.
func (e *Engine) Respond(ctx context.Context, message string, conv *chat.Context) Response {
	if e.backend != nil {
		text, err := e.backend.Generate(ctx, message, conv)
		if err == nil {
			resp := Response{Text: text}
			if action, step, ok := Classify(text); ok {
				resp.Action = action
				resp.Patch = &chat.ContextPatch{CurrentStep: step}
			}
			return resp
		}
		log.Printf("[backend] session=%s falling back to templates: %v", conv.SessionID, err)
	}

	return e.fallback.Respond(message, conv)
}
