package postgres

import (
	"context"
	"fmt"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/repository"
)

const supportColumns = `id, user_id, type, message, status, name, email, COALESCE(phone, ''), COALESCE(address, ''), created_at`

type supportRepository struct {
	db repository.DBTX
}

func NewSupportRepository(db repository.DBTX) repository.SupportRepository {
	return &supportRepository{db: db}
}

func scanSupport(row rowScanner) (*domain.SupportRequest, error) {
	s := &domain.SupportRequest{}
	err := row.Scan(&s.ID, &s.UserID, &s.Type, &s.Message, &s.Status, &s.Name, &s.Email, &s.Phone, &s.Address, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *supportRepository) Create(ctx context.Context, s *domain.SupportRequest) error {
	query := `INSERT INTO support_requests (user_id, type, message, status, name, email, phone, address)
	          VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, '')) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, s.UserID, s.Type, s.Message, s.Status, s.Name, s.Email, s.Phone, s.Address).Scan(&s.ID, &s.CreatedAt)
}

func (r *supportRepository) List(ctx context.Context) ([]domain.SupportRequest, error) {
	query := `SELECT ` + supportColumns + ` FROM support_requests ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.SupportRequest
	for rows.Next() {
		s, err := scanSupport(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning support request: %w", err)
		}
		reqs = append(reqs, *s)
	}
	return reqs, rows.Err()
}

func (r *supportRepository) UpdateStatus(ctx context.Context, id int32, status domain.SupportStatus) (*domain.SupportRequest, error) {
	query := `UPDATE support_requests SET status = $1 WHERE id = $2 RETURNING ` + supportColumns
	s, err := scanSupport(r.db.QueryRowContext(ctx, query, status, id))
	if err != nil {
		return nil, notFound(err, domain.ErrSupportRequestNotFound)
	}
	return s, nil
}
