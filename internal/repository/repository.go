package repository

import (
	"context"
	"database/sql"
	"time"

	"toolrental-backend/internal/domain"
)

// DBTX is the subset of *sql.DB and *sql.Tx the repositories need, so the
// same repository code runs inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type ToolRepository interface {
	Create(ctx context.Context, tool *domain.Tool) error
	GetByID(ctx context.Context, id int32) (*domain.Tool, error)
	// GetForUpdate reads the tool and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, id int32) (*domain.Tool, error)
	Update(ctx context.Context, tool *domain.Tool) error
	Deactivate(ctx context.Context, id int32) error
	ListActive(ctx context.Context) ([]domain.Tool, error)
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.Tool, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int32) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int32) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int32, from, to domain.LifecycleStatus) error
	UpdateEndDate(ctx context.Context, id int32, endDate time.Time) error
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	ListByRenter(ctx context.Context, renterID int32) ([]domain.Rental, error)
	ListByTool(ctx context.Context, toolID int32) ([]domain.Rental, error)
	UpdateStatus(ctx context.Context, id int32, from, to domain.LifecycleStatus) error
	UpdateEndDateAndTotal(ctx context.Context, id int32, endDate time.Time, totalPriceCents int64) error
	CountOpenByTool(ctx context.Context, toolID int32) (int, error)

	// LockPairByRental and LockPairByOrder load an Order/Rental pair and lock
	// both rows until the surrounding transaction ends.
	LockPairByRental(ctx context.Context, rentalID int32) (*domain.RentalPair, error)
	LockPairByOrder(ctx context.Context, orderID int32) (*domain.RentalPair, error)

	// ListUnbilled returns completed rentals without a completed payment.
	ListUnbilled(ctx context.Context, limit int) ([]domain.Rental, error)
	// ListStalePending returns pending rentals that should have started before cutoff.
	ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]domain.Rental, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	// FindCompletedByRental returns nil, nil when the rental has not been paid.
	FindCompletedByRental(ctx context.Context, rentalID int32) (*domain.Payment, error)
	ListByRental(ctx context.Context, rentalID int32) ([]domain.Payment, error)
	ListByUser(ctx context.Context, userID int32) ([]domain.Payment, error)
}

type HistoryRepository interface {
	Create(ctx context.Context, entry *domain.HistoryEntry) error
	ListByUser(ctx context.Context, userID int32) ([]domain.HistoryEntry, error)
	ListByOrder(ctx context.Context, orderID int32) ([]domain.HistoryEntry, error)
}

type SupportRepository interface {
	Create(ctx context.Context, req *domain.SupportRequest) error
	List(ctx context.Context) ([]domain.SupportRequest, error)
	UpdateStatus(ctx context.Context, id int32, status domain.SupportStatus) (*domain.SupportRequest, error)
}

// Repos groups every repository bound to one connection or transaction.
type Repos struct {
	Users    UserRepository
	Tools    ToolRepository
	Orders   OrderRepository
	Rentals  RentalRepository
	Payments PaymentRepository
	History  HistoryRepository
	Support  SupportRepository
}

// Store hands out repositories and runs units of work atomically.
type Store interface {
	Repos() *Repos
	// WithinTx runs fn with repositories bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(repos *Repos) error) error
}
