package menu

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	menuModel "github.com/rauldpena/delicia/backend/internal/model/menu"
	"github.com/rauldpena/delicia/backend/pkg/utils"
)

// Handler serves read-only menu endpoints.
type Handler struct {
	catalog menuModel.Catalog
}

// New creates the menu handler.
func New(catalog menuModel.Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// RegisterRoutes mounts the menu endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/menu", h.handleList)
	r.Get("/menu/{itemID}", h.handleGet)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	items := h.catalog.ByCategory(category)
	if items == nil {
		items = []menuModel.Item{}
	}
	utils.RespondJSON(w, http.StatusOK, items)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "itemID"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, ok := h.catalog.FindByID(id)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "menu item not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}
