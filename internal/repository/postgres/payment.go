package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/repository"
)

const paymentColumns = `p.id, p.rental_id, p.amount_cents, p.payment_method, p.transaction_id, p.status, COALESCE(p.failure_reason, ''), p.payment_date, p.created_at`

type paymentRepository struct {
	db repository.DBTX
}

func NewPaymentRepository(db repository.DBTX) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	p := &domain.Payment{}
	err := row.Scan(&p.ID, &p.RentalID, &p.AmountCents, &p.PaymentMethod, &p.TransactionID, &p.Status, &p.FailureReason, &p.PaymentDate, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (rental_id, amount_cents, payment_method, transaction_id, status, failure_reason, payment_date)
	          VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, p.RentalID, p.AmountCents, p.PaymentMethod, p.TransactionID, p.Status, p.FailureReason, p.PaymentDate).Scan(&p.ID, &p.CreatedAt)
}

func (r *paymentRepository) FindCompletedByRental(ctx context.Context, rentalID int32) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments p WHERE p.rental_id = $1 AND p.status = $2`
	p, err := scanPayment(r.db.QueryRowContext(ctx, query, rentalID, domain.PaymentStatusCompleted))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) ListByRental(ctx context.Context, rentalID int32) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments p WHERE p.rental_id = $1 ORDER BY p.created_at, p.id`
	return r.list(ctx, query, rentalID)
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID int32) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments p JOIN rentals r ON r.id = p.rental_id
	          WHERE r.renter_id = $1 ORDER BY p.created_at DESC, p.id DESC`
	return r.list(ctx, query, userID)
}

func (r *paymentRepository) list(ctx context.Context, query string, args ...any) ([]domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}
