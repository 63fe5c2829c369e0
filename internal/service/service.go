package service

import (
	"context"
	"time"

	"toolrental-backend/internal/domain"
)

// LifecycleManager owns every write to Order and Rental status. Each
// transition locks the pair, checks the current status and moves both rows in
// one transaction.
type LifecycleManager interface {
	CreateRentalTransaction(ctx context.Context, req CreateRentalRequest) (*domain.RentalPair, error)
	ConfirmPickup(ctx context.Context, rentalID int32) (*TransitionResult, error)
	ConfirmReturn(ctx context.Context, rentalID int32) (*TransitionResult, error)
	CancelByOrder(ctx context.Context, orderID int32) (*TransitionResult, error)
	CancelByRental(ctx context.Context, rentalID int32) (*TransitionResult, error)
	Extend(ctx context.Context, rentalID int32, additionalDays int) (*TransitionResult, error)
	RetryCapture(ctx context.Context, rentalID int32) (*TransitionResult, error)

	// Out-of-band maintenance, driven by the scheduler.
	RetryUnbilled(ctx context.Context, limit int) (int, error)
	ExpireStalePending(ctx context.Context, cutoff time.Time, limit int) (int, error)

	GetOrder(ctx context.Context, orderID int32) (*domain.Order, error)
	GetRental(ctx context.Context, rentalID int32) (*domain.Rental, error)
	ListOrdersByUser(ctx context.Context, userID int32) ([]domain.Order, error)
	ListRentalsByUser(ctx context.Context, userID int32) ([]domain.Rental, error)
	ListRentalsByTool(ctx context.Context, toolID int32) ([]domain.Rental, error)
	ListPaymentsByRental(ctx context.Context, rentalID int32) ([]domain.Payment, error)
	ListPaymentsByUser(ctx context.Context, userID int32) ([]domain.Payment, error)
}

// HistoryRecorder appends audit lines.
type HistoryRecorder interface {
	Record(ctx context.Context, userID, orderID int32, detail string) error
}

type HistoryService interface {
	HistoryRecorder
	ListByUser(ctx context.Context, userID int32) ([]domain.HistoryEntry, error)
	ListByOrder(ctx context.Context, orderID int32) ([]domain.HistoryEntry, error)
}

type CatalogService interface {
	GetTool(ctx context.Context, id int32) (*domain.Tool, error)
	ListActiveTools(ctx context.Context) ([]domain.Tool, error)
	ListToolsByOwner(ctx context.Context, ownerID int32) ([]domain.Tool, error)
	CreateTool(ctx context.Context, ownerID int32, tool *domain.Tool) error
	UpdateTool(ctx context.Context, ownerID, toolID int32, update ToolUpdate) (*domain.Tool, error)
	DeactivateTool(ctx context.Context, ownerID, toolID int32) error
}

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error) // access token, user
	GetUser(ctx context.Context, userID int32) (*domain.User, error)
}

type SupportService interface {
	Submit(ctx context.Context, req *domain.SupportRequest) error
	List(ctx context.Context) ([]domain.SupportRequest, error)
	UpdateStatus(ctx context.Context, id int32, status domain.SupportStatus) (*domain.SupportRequest, error)
}
