package http

import (
	"net/http"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/service"
)

type SupportHandler struct {
	support service.SupportService
}

func NewSupportHandler(support service.SupportService) *SupportHandler {
	return &SupportHandler{support: support}
}

type createSupportRequest struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type updateSupportRequest struct {
	Status string `json:"status"`
}

// Create is public. A signed-in caller is linked to the request.
func (h *SupportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSupportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sr := &domain.SupportRequest{
		Type:    req.Type,
		Message: req.Message,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if caller, ok := CallerFromContext(r.Context()); ok {
		sr.UserID = &caller.UserID
	}
	if err := h.support.Submit(r.Context(), sr); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sr)
}

func (h *SupportHandler) List(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.support.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if reqs == nil {
		reqs = []domain.SupportRequest{}
	}
	writeJSON(w, http.StatusOK, reqs)
}

func (h *SupportHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateSupportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := h.support.UpdateStatus(r.Context(), id, domain.SupportStatus(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
