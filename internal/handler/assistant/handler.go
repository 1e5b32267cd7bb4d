package assistant

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rauldpena/delicia/backend/internal/model/chat"
	assistantService "github.com/rauldpena/delicia/backend/internal/service/assistant"
	"github.com/rauldpena/delicia/backend/internal/service/history"
	"github.com/rauldpena/delicia/backend/pkg/utils"
)

// Handler exposes the assistant engine over HTTP.
type Handler struct {
	svc *assistantService.Service
}

// New creates the assistant handler.
func New(svc *assistantService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the assistant endpoints under /ai.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/ai", func(r chi.Router) {
		r.Post("/chat", h.handleChat)
		r.Post("/order/confirm", h.handleConfirmOrder)
		r.Get("/context/{sessionID}", h.handleGetContext)
		r.Get("/history/{sessionID}", h.handleGetHistory)
		r.Get("/stats/{sessionID}", h.handleGetStats)
		r.Get("/search", h.handleSearch)
		r.Get("/export/{sessionID}", h.handleExport)
		r.Get("/global-stats", h.handleGlobalStats)
		r.Get("/health", h.handleHealth)
	})
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message   string `json:"message"`
		SessionID string `json:"sessionId"`
		UserID    string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Handle(r.Context(), payload.Message, payload.SessionID, payload.UserID)
	if err != nil {
		if errors.Is(err, assistantService.ErrMessageRequired) {
			utils.RespondError(w, http.StatusBadRequest, "message is required")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleConfirmOrder(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.SessionID == "" {
		utils.RespondError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	result, order := h.svc.ConfirmOrder(payload.SessionID)
	if order == nil {
		utils.RespondJSON(w, http.StatusConflict, map[string]any{"message": result.Text})
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"message": result.Text,
		"order":   order,
	})
}

func (h *Handler) handleGetContext(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	ctx, ok := h.svc.GetContext(sessionID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, ctx)
}

func (h *Handler) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	hist, ok := h.svc.GetHistory(sessionID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "conversation not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, hist)
}

func (h *Handler) handleGetStats(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	stats, ok := h.svc.GetStats(sessionID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "conversation not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	criteria := history.SearchCriteria{
		UserID:      r.URL.Query().Get("userId"),
		CurrentStep: chat.Step(r.URL.Query().Get("currentStep")),
	}

	if raw := r.URL.Query().Get("minMessages"); raw != "" {
		min, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid minMessages")
			return
		}
		criteria.MinMessages = min
	}
	if raw := r.URL.Query().Get("dateFrom"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid dateFrom, expected RFC3339")
			return
		}
		criteria.DateFrom = from
	}
	if raw := r.URL.Query().Get("dateTo"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid dateTo, expected RFC3339")
			return
		}
		criteria.DateTo = to
	}

	results := h.svc.Search(criteria)
	if results == nil {
		results = []history.SessionSummary{}
	}
	utils.RespondJSON(w, http.StatusOK, results)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	export, ok := h.svc.Export(sessionID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "conversation not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, export)
}

func (h *Handler) handleGlobalStats(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.svc.GlobalStats())
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "ai"})
}
