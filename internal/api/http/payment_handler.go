package http

import (
	"net/http"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/service"
)

// PaymentHandler serves read-only payment and history views. Payments are
// only ever written by the lifecycle manager.
type PaymentHandler struct {
	lifecycle service.LifecycleManager
	history   service.HistoryService
	guard     accessGuard
}

func NewPaymentHandler(lifecycle service.LifecycleManager, history service.HistoryService, catalog service.CatalogService) *PaymentHandler {
	return &PaymentHandler{lifecycle: lifecycle, history: history, guard: accessGuard{catalog: catalog}}
}

func (h *PaymentHandler) ListByRental(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	rentalID, err := pathID(r, "rentalId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rental, err := h.lifecycle.GetRental(r.Context(), rentalID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.guard.rental(r.Context(), caller, rental); err != nil {
		writeError(w, r, err)
		return
	}
	payments, err := h.lifecycle.ListPaymentsByRental(r.Context(), rentalID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	writeJSON(w, http.StatusOK, payments)
}

func (h *PaymentHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.guard.self(caller, userID); err != nil {
		writeError(w, r, err)
		return
	}
	payments, err := h.lifecycle.ListPaymentsByUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	writeJSON(w, http.StatusOK, payments)
}

func (h *PaymentHandler) HistoryByUser(w http.ResponseWriter, r *http.Request) {
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
	entries, err := h.history.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *PaymentHandler) HistoryByOrder(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	orderID, err := pathID(r, "orderId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.lifecycle.GetOrder(r.Context(), orderID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.guard.order(r.Context(), caller, order); err != nil {
		writeError(w, r, err)
		return
	}
	entries, err := h.history.ListByOrder(r.Context(), orderID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
