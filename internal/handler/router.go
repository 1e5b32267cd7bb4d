package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	assistantHandler "github.com/rauldpena/delicia/backend/internal/handler/assistant"
	menuHandler "github.com/rauldpena/delicia/backend/internal/handler/menu"
	"github.com/rauldpena/delicia/backend/internal/handler/orders"
	"github.com/rauldpena/delicia/backend/internal/middleware"
	menuModel "github.com/rauldpena/delicia/backend/internal/model/menu"
	assistantService "github.com/rauldpena/delicia/backend/internal/service/assistant"
)

// NewRouter wires HTTP routes to the assistant engine and its collaborators.
func NewRouter(svc *assistantService.Service, catalog menuModel.Catalog, hub *orders.Hub) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS)

	r.Route("/api", func(api chi.Router) {
		assistantHandler.New(svc).RegisterRoutes(api)
		menuHandler.New(catalog).RegisterRoutes(api)

		if hub != nil {
			api.Get("/ws/orders", hub.ServeWS)
		}
	})

	return r
}
