package postgres

import (
	"context"
	"fmt"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/repository"
)

type historyRepository struct {
	db repository.DBTX
}

func NewHistoryRepository(db repository.DBTX) repository.HistoryRepository {
	return &historyRepository{db: db}
}

// Create appends an entry. History rows are never updated or deleted.
func (r *historyRepository) Create(ctx context.Context, h *domain.HistoryEntry) error {
	query := `INSERT INTO history (user_id, order_id, detail) VALUES ($1, $2, $3) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, h.UserID, h.OrderID, h.Detail).Scan(&h.ID, &h.CreatedAt)
}

func (r *historyRepository) ListByUser(ctx context.Context, userID int32) ([]domain.HistoryEntry, error) {
	query := `SELECT id, user_id, order_id, detail, created_at FROM history WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, userID)
}

func (r *historyRepository) ListByOrder(ctx context.Context, orderID int32) ([]domain.HistoryEntry, error) {
	query := `SELECT id, user_id, order_id, detail, created_at FROM history WHERE order_id = $1 ORDER BY created_at, id`
	return r.list(ctx, query, orderID)
}

func (r *historyRepository) list(ctx context.Context, query string, arg int32) ([]domain.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var h domain.HistoryEntry
		if err := rows.Scan(&h.ID, &h.UserID, &h.OrderID, &h.Detail, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		entries = append(entries, h)
	}
	return entries, rows.Err()
}
