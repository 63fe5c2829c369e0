package http

import (
	"net/http"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/service"
)

type ToolHandler struct {
	catalog service.CatalogService
}

func NewToolHandler(catalog service.CatalogService) *ToolHandler {
	return &ToolHandler{catalog: catalog}
}

type createToolRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	PricePerDayCents int64  `json:"price_per_day_cents"`
	ImageURL         string `json:"image_url"`
}

type updateToolRequest struct {
	Name             *string `json:"name"`
	Description      *string `json:"description"`
	PricePerDayCents *int64  `json:"price_per_day_cents"`
	ImageURL         *string `json:"image_url"`
}

func (h *ToolHandler) List(w http.ResponseWriter, r *http.Request) {
	tools, err := h.catalog.ListActiveTools(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if tools == nil {
		tools = []domain.Tool{}
	}
	writeJSON(w, http.StatusOK, tools)
}

func (h *ToolHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID, err := pathID(r, "ownerId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	tools, err := h.catalog.ListToolsByOwner(r.Context(), ownerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if tools == nil {
		tools = []domain.Tool{}
	}
	writeJSON(w, http.StatusOK, tools)
}

func (h *ToolHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	tool, err := h.catalog.GetTool(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tool)
}

// Create lists a new tool owned by the caller.
func (h *ToolHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req createToolRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	tool := &domain.Tool{
		Name:             req.Name,
		Description:      req.Description,
		PricePerDayCents: req.PricePerDayCents,
		ImageURL:         req.ImageURL,
	}
	if err := h.catalog.CreateTool(r.Context(), caller.UserID, tool); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tool)
}

func (h *ToolHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateToolRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	tool, err := h.catalog.UpdateTool(r.Context(), caller.UserID, id, service.ToolUpdate{
		Name:             req.Name,
		Description:      req.Description,
		PricePerDayCents: req.PricePerDayCents,
		ImageURL:         req.ImageURL,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tool)
}

// Deactivate handles DELETE /tools/{id} as a soft delete.
func (h *ToolHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.catalog.DeactivateTool(r.Context(), caller.UserID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
