package http

import (
	"net/http"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/service"
)

type RentalHandler struct {
	lifecycle service.LifecycleManager
	guard     accessGuard
}

func NewRentalHandler(lifecycle service.LifecycleManager, catalog service.CatalogService) *RentalHandler {
	return &RentalHandler{lifecycle: lifecycle, guard: accessGuard{catalog: catalog}}
}

type updateRentalStatusRequest struct {
	Status string `json:"status"`
}

type extendRentalRequest struct {
	AdditionalDays int `json:"additional_days"`
}

// authorized loads the rental named by the path and checks the caller may act
// on it.
func (h *RentalHandler) authorized(w http.ResponseWriter, r *http.Request) (*domain.Rental, bool) {
	caller, err := requireCaller(r.Context())
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	rental, err := h.lifecycle.GetRental(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	if err := h.guard.rental(r.Context(), caller, rental); err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return rental, true
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	rental, ok := h.authorized(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

// UpdateStatus handles PUT /rentals/{id}: active confirms pickup, completed
// confirms the return, cancelled cancels.
func (h *RentalHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateRentalStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rental, ok := h.authorized(w, r)
	if !ok {
		return
	}

	var (
		res *service.TransitionResult
		err error
	)
	switch domain.LifecycleStatus(req.Status) {
	case domain.StatusActive:
		res, err = h.lifecycle.ConfirmPickup(r.Context(), rental.ID)
	case domain.StatusCompleted:
		res, err = h.lifecycle.ConfirmReturn(r.Context(), rental.ID)
	case domain.StatusCancelled:
		res, err = h.lifecycle.CancelByRental(r.Context(), rental.ID)
	default:
		err = domain.NewError(domain.KindInvalidInput, "status must be one of active, completed, cancelled")
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	rental, ok := h.authorized(w, r)
	if !ok {
		return
	}
	res, err := h.lifecycle.CancelByRental(r.Context(), rental.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *RentalHandler) Extend(w http.ResponseWriter, r *http.Request) {
	var req extendRentalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rental, ok := h.authorized(w, r)
	if !ok {
		return
	}
	res, err := h.lifecycle.Extend(r.Context(), rental.ID, req.AdditionalDays)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// RetryCapture handles POST /rentals/{id}/capture. Admin only.
func (h *RentalHandler) RetryCapture(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.lifecycle.RetryCapture(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *RentalHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.guard.self(caller, userID); err != nil {
		writeError(w, r, err)
		return
	}
	rentals, err := h.lifecycle.ListRentalsByUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rentals == nil {
		rentals = []domain.Rental{}
	}
	writeJSON(w, http.StatusOK, rentals)
}

func (h *RentalHandler) ListByTool(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	toolID, err := pathID(r, "toolId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.guard.toolOwner(r.Context(), caller, toolID); err != nil {
		writeError(w, r, err)
		return
	}
	rentals, err := h.lifecycle.ListRentalsByTool(r.Context(), toolID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rentals == nil {
		rentals = []domain.Rental{}
	}
	writeJSON(w, http.StatusOK, rentals)
}
