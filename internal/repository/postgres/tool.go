package postgres

import (
	"context"
	"fmt"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/repository"
)

const toolColumns = `t.id, t.owner_id, COALESCE(u.full_name, u.username, ''), t.name, t.description, t.price_per_day_cents, t.image_url, t.status, t.created_at`

type toolRepository struct {
	db repository.DBTX
}

func NewToolRepository(db repository.DBTX) repository.ToolRepository {
	return &toolRepository{db: db}
}

func scanTool(row rowScanner) (*domain.Tool, error) {
	t := &domain.Tool{}
	err := row.Scan(&t.ID, &t.OwnerID, &t.OwnerName, &t.Name, &t.Description, &t.PricePerDayCents, &t.ImageURL, &t.Status, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *toolRepository) Create(ctx context.Context, t *domain.Tool) error {
	query := `INSERT INTO tools (owner_id, name, description, price_per_day_cents, image_url, status)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, t.OwnerID, t.Name, t.Description, t.PricePerDayCents, t.ImageURL, t.Status).Scan(&t.ID, &t.CreatedAt)
}

func (r *toolRepository) GetByID(ctx context.Context, id int32) (*domain.Tool, error) {
	query := `SELECT ` + toolColumns + ` FROM tools t JOIN users u ON u.id = t.owner_id WHERE t.id = $1`
	t, err := scanTool(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, domain.ErrToolNotFound)
	}
	return t, nil
}

func (r *toolRepository) GetForUpdate(ctx context.Context, id int32) (*domain.Tool, error) {
	query := `SELECT ` + toolColumns + ` FROM tools t JOIN users u ON u.id = t.owner_id WHERE t.id = $1 FOR UPDATE OF t`
	t, err := scanTool(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, domain.ErrToolNotFound)
	}
	return t, nil
}

func (r *toolRepository) Update(ctx context.Context, t *domain.Tool) error {
	query := `UPDATE tools SET name=$1, description=$2, price_per_day_cents=$3, image_url=$4 WHERE id=$5`
	res, err := r.db.ExecContext(ctx, query, t.Name, t.Description, t.PricePerDayCents, t.ImageURL, t.ID)
	if err != nil {
		return err
	}
	return expectOneRow(res, domain.ErrToolNotFound)
}

func (r *toolRepository) Deactivate(ctx context.Context, id int32) error {
	query := `UPDATE tools SET status = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, domain.ToolStatusInactive, id)
	if err != nil {
		return err
	}
	return expectOneRow(res, domain.ErrToolNotFound)
}

func (r *toolRepository) ListActive(ctx context.Context) ([]domain.Tool, error) {
	query := `SELECT ` + toolColumns + ` FROM tools t JOIN users u ON u.id = t.owner_id
	          WHERE t.status = $1 ORDER BY t.created_at DESC, t.id DESC`
	return r.list(ctx, query, domain.ToolStatusActive)
}

func (r *toolRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Tool, error) {
	query := `SELECT ` + toolColumns + ` FROM tools t JOIN users u ON u.id = t.owner_id
	          WHERE t.owner_id = $1 ORDER BY t.created_at DESC, t.id DESC`
	return r.list(ctx, query, ownerID)
}

func (r *toolRepository) list(ctx context.Context, query string, args ...any) ([]domain.Tool, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tools []domain.Tool
	for rows.Next() {
		t, err := scanTool(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning tool: %w", err)
		}
		tools = append(tools, *t)
	}
	return tools, rows.Err()
}
