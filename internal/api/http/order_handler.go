package http

import (
	"net/http"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/service"
	"toolrental-backend/internal/utils"
)

type OrderHandler struct {
	lifecycle service.LifecycleManager
	guard     accessGuard
}

func NewOrderHandler(lifecycle service.LifecycleManager, catalog service.CatalogService) *OrderHandler {
	return &OrderHandler{lifecycle: lifecycle, guard: accessGuard{catalog: catalog}}
}

type createOrderRequest struct {
	UserID          int32  `json:"user_id"`
	ToolID          int32  `json:"tool_id"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	DeliveryType    string `json:"delivery_type"`
	DeliveryAddress string `json:"delivery_address"`
}

// Create handles POST /orders. The order is placed for the caller; only an
// admin may place one on behalf of another user.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.UserID == 0 {
		req.UserID = caller.UserID
	}
	if req.UserID != caller.UserID && !caller.IsAdmin() {
		writeError(w, r, domain.NewError(domain.KindForbidden, "cannot place an order for another user"))
		return
	}
	if req.ToolID <= 0 {
		writeError(w, r, domain.NewError(domain.KindInvalidInput, "tool_id is required"))
		return
	}

	start, err := utils.ParseRentalDate(req.StartDate)
	if err != nil {
		writeError(w, r, domain.WrapError(domain.KindInvalidInput, err, "invalid start_date"))
		return
	}
	end, err := utils.ParseRentalDate(req.EndDate)
	if err != nil {
		writeError(w, r, domain.WrapError(domain.KindInvalidInput, err, "invalid end_date"))
		return
	}

	pair, err := h.lifecycle.CreateRentalTransaction(r.Context(), service.CreateRentalRequest{
		CustomerID:      req.UserID,
		ToolID:          req.ToolID,
		StartDate:       start,
		EndDate:         end,
		DeliveryType:    domain.DeliveryType(req.DeliveryType),
		DeliveryAddress: req.DeliveryAddress,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, pair)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	order, err := h.lifecycle.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.guard.order(r.Context(), caller, order); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Cancel handles DELETE /orders/{id}.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
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
	order, err := h.lifecycle.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.guard.order(r.Context(), caller, order); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.lifecycle.CancelByOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *OrderHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
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
	orders, err := h.lifecycle.ListOrdersByUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}
