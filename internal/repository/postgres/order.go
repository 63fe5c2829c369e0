package postgres

import (
	"context"
	"fmt"
	"time"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/repository"
)

const orderColumns = `o.id, o.user_id, o.tool_id, t.name, o.start_date, o.end_date, o.status, o.delivery_type, COALESCE(o.delivery_address, ''), o.created_at, o.updated_at`

type orderRepository struct {
	db repository.DBTX
}

func NewOrderRepository(db repository.DBTX) repository.OrderRepository {
	return &orderRepository{db: db}
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	o := &domain.Order{}
	err := row.Scan(&o.ID, &o.UserID, &o.ToolID, &o.ToolName, &o.StartDate, &o.EndDate, &o.Status, &o.DeliveryType, &o.DeliveryAddress, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	query := `INSERT INTO orders (user_id, tool_id, start_date, end_date, status, delivery_type, delivery_address)
	          VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')) RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query, o.UserID, o.ToolID, o.StartDate, o.EndDate, o.Status, o.DeliveryType, o.DeliveryAddress).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
}

func (r *orderRepository) GetByID(ctx context.Context, id int32) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o JOIN tools t ON t.id = o.tool_id WHERE o.id = $1`
	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, domain.ErrOrderNotFound)
	}
	return o, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int32) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o JOIN tools t ON t.id = o.tool_id
	          WHERE o.user_id = $1 ORDER BY o.created_at DESC, o.id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// UpdateStatus only writes when the row is still in the from state.
func (r *orderRepository) UpdateStatus(ctx context.Context, id int32, from, to domain.LifecycleStatus) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`
	res, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return err
	}
	return expectOneRow(res, domain.NewError(domain.KindInvalidTransition, "order %d is no longer %s", id, from))
}

func (r *orderRepository) UpdateEndDate(ctx context.Context, id int32, endDate time.Time) error {
	query := `UPDATE orders SET end_date = $1, updated_at = NOW() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, endDate, id)
	if err != nil {
		return err
	}
	return expectOneRow(res, domain.ErrOrderNotFound)
}
