package http

import (
	"net/http"
	"time"

	"toolrental-backend/internal/security"
	"toolrental-backend/internal/service"

	"github.com/gorilla/mux"
)

// Services are the dependencies the HTTP surface calls into.
type Services struct {
	Lifecycle service.LifecycleManager
	Catalog   service.CatalogService
	History   service.HistoryService
	Auth      service.AuthService
	Support   service.SupportService
	Tokens    security.TokenManager
	DB        Pinger

	RequestTimeout time.Duration
}

// NewRouter wires every route. Route names key into the endpoint security
// table, so each route must be named.
func NewRouter(s Services) *mux.Router {
	orders := NewOrderHandler(s.Lifecycle, s.Catalog)
	rentals := NewRentalHandler(s.Lifecycle, s.Catalog)
	tools := NewToolHandler(s.Catalog)
	payments := NewPaymentHandler(s.Lifecycle, s.History, s.Catalog)
	support := NewSupportHandler(s.Support)
	auth := NewAuthHandler(s.Auth)
	health := NewHealthHandler(s.DB)

	r := mux.NewRouter()
	r.Use(RequestLogger, Timeout(s.RequestTimeout), NewAuthMiddleware(s.Tokens).Handler)

	r.HandleFunc("/healthz", health.Check).Methods(http.MethodGet).Name("Health")
	r.HandleFunc("/auth/register", auth.Register).Methods(http.MethodPost).Name("Register")
	r.HandleFunc("/auth/login", auth.Login).Methods(http.MethodPost).Name("Login")

	r.HandleFunc("/tools", tools.List).Methods(http.MethodGet).Name("ListTools")
	r.HandleFunc("/tools", tools.Create).Methods(http.MethodPost).Name("CreateTool")
	r.HandleFunc("/tools/owner/{ownerId:[0-9]+}", tools.ListByOwner).Methods(http.MethodGet).Name("ListToolsByOwner")
	r.HandleFunc("/tools/{id:[0-9]+}", tools.Get).Methods(http.MethodGet).Name("GetTool")
	r.HandleFunc("/tools/{id:[0-9]+}", tools.Update).Methods(http.MethodPut).Name("UpdateTool")
	r.HandleFunc("/tools/{id:[0-9]+}", tools.Deactivate).Methods(http.MethodDelete).Name("DeactivateTool")

	r.HandleFunc("/orders", orders.Create).Methods(http.MethodPost).Name("CreateOrder")
	r.HandleFunc("/orders/user/{userId:[0-9]+}", orders.ListByUser).Methods(http.MethodGet).Name("ListOrdersByUser")
	r.HandleFunc("/orders/{id:[0-9]+}", orders.Get).Methods(http.MethodGet).Name("GetOrder")
	r.HandleFunc("/orders/{id:[0-9]+}", orders.Cancel).Methods(http.MethodDelete).Name("CancelOrder")

	r.HandleFunc("/rentals/user/{userId:[0-9]+}", rentals.ListByUser).Methods(http.MethodGet).Name("ListRentalsByUser")
	r.HandleFunc("/rentals/tool/{toolId:[0-9]+}", rentals.ListByTool).Methods(http.MethodGet).Name("ListRentalsByTool")
	r.HandleFunc("/rentals/{id:[0-9]+}", rentals.Get).Methods(http.MethodGet).Name("GetRental")
	r.HandleFunc("/rentals/{id:[0-9]+}", rentals.UpdateStatus).Methods(http.MethodPut).Name("UpdateRentalStatus")
	r.HandleFunc("/rentals/{id:[0-9]+}", rentals.Cancel).Methods(http.MethodDelete).Name("CancelRental")
	r.HandleFunc("/rentals/{id:[0-9]+}/extend", rentals.Extend).Methods(http.MethodPost).Name("ExtendRental")
	r.HandleFunc("/rentals/{id:[0-9]+}/capture", rentals.RetryCapture).Methods(http.MethodPost).Name("RetryCapture")

	r.HandleFunc("/payments/rental/{rentalId:[0-9]+}", payments.ListByRental).Methods(http.MethodGet).Name("ListPaymentsByRental")
	r.HandleFunc("/users/{id:[0-9]+}/payments", payments.ListByUser).Methods(http.MethodGet).Name("ListPaymentsByUser")
	r.HandleFunc("/history/user/{userId:[0-9]+}", payments.HistoryByUser).Methods(http.MethodGet).Name("ListHistoryByUser")
	r.HandleFunc("/history/order/{orderId:[0-9]+}", payments.HistoryByOrder).Methods(http.MethodGet).Name("ListHistoryByOrder")

	r.HandleFunc("/support", support.Create).Methods(http.MethodPost).Name("CreateSupportRequest")
	r.HandleFunc("/support", support.List).Methods(http.MethodGet).Name("ListSupportRequests")
	r.HandleFunc("/support/{id:[0-9]+}", support.UpdateStatus).Methods(http.MethodPut).Name("UpdateSupportRequest")

	return r
}
