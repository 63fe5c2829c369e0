package postgres

import (
	"context"
	"fmt"
	"time"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/repository"

	"github.com/lib/pq"
)

const rentalColumns = `r.id, r.order_id, r.tool_id, r.renter_id, t.name, r.start_date, r.end_date, r.status, r.price_per_day_cents, r.total_price_cents, r.created_at, r.updated_at`

// openStatuses are the states that still hold a tool.
var openStatuses = []string{string(domain.StatusPending), string(domain.StatusActive)}

type rentalRepository struct {
	db repository.DBTX
}

func NewRentalRepository(db repository.DBTX) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	rt := &domain.Rental{}
	err := row.Scan(&rt.ID, &rt.OrderID, &rt.ToolID, &rt.RenterID, &rt.ToolName, &rt.StartDate, &rt.EndDate, &rt.Status, &rt.PricePerDayCents, &rt.TotalPriceCents, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (order_id, tool_id, renter_id, start_date, end_date, status, price_per_day_cents, total_price_cents)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query, rt.OrderID, rt.ToolID, rt.RenterID, rt.StartDate, rt.EndDate, rt.Status, rt.PricePerDayCents, rt.TotalPriceCents).Scan(&rt.ID, &rt.CreatedAt, &rt.UpdatedAt)
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals r JOIN tools t ON t.id = r.tool_id WHERE r.id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, domain.ErrRentalNotFound)
	}
	return rt, nil
}

func (r *rentalRepository) ListByRenter(ctx context.Context, renterID int32) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals r JOIN tools t ON t.id = r.tool_id
	          WHERE r.renter_id = $1 ORDER BY r.created_at DESC, r.id DESC`
	return r.list(ctx, query, renterID)
}

func (r *rentalRepository) ListByTool(ctx context.Context, toolID int32) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals r JOIN tools t ON t.id = r.tool_id
	          WHERE r.tool_id = $1 ORDER BY r.start_date DESC, r.id DESC`
	return r.list(ctx, query, toolID)
}

func (r *rentalRepository) ListUnbilled(ctx context.Context, limit int) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals r JOIN tools t ON t.id = r.tool_id
	          WHERE r.status = $1
	            AND NOT EXISTS (SELECT 1 FROM payments p WHERE p.rental_id = r.id AND p.status = $2)
	          ORDER BY r.updated_at, r.id LIMIT $3`
	return r.list(ctx, query, domain.StatusCompleted, domain.PaymentStatusCompleted, limit)
}

func (r *rentalRepository) ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals r JOIN tools t ON t.id = r.tool_id
	          WHERE r.status = $1 AND r.start_date < $2
	          ORDER BY r.start_date, r.id LIMIT $3`
	return r.list(ctx, query, domain.StatusPending, cutoff, limit)
}

func (r *rentalRepository) list(ctx context.Context, query string, args ...any) ([]domain.Rental, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning rental: %w", err)
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}

// UpdateStatus only writes when the row is still in the from state.
func (r *rentalRepository) UpdateStatus(ctx context.Context, id int32, from, to domain.LifecycleStatus) error {
	query := `UPDATE rentals SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`
	res, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return err
	}
	return expectOneRow(res, domain.NewError(domain.KindInvalidTransition, "rental %d is no longer %s", id, from))
}

func (r *rentalRepository) UpdateEndDateAndTotal(ctx context.Context, id int32, endDate time.Time, totalPriceCents int64) error {
	query := `UPDATE rentals SET end_date = $1, total_price_cents = $2, updated_at = NOW() WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, endDate, totalPriceCents, id)
	if err != nil {
		return err
	}
	return expectOneRow(res, domain.ErrRentalNotFound)
}

func (r *rentalRepository) CountOpenByTool(ctx context.Context, toolID int32) (int, error) {
	query := `SELECT COUNT(*) FROM rentals WHERE tool_id = $1 AND status = ANY($2)`
	var n int
	err := r.db.QueryRowContext(ctx, query, toolID, pq.Array(openStatuses)).Scan(&n)
	return n, err
}

const lockPairQuery = `SELECT ` + rentalColumns + `,
       o.id, o.user_id, o.tool_id, o.start_date, o.end_date, o.status, o.delivery_type, COALESCE(o.delivery_address, ''), o.created_at, o.updated_at
FROM rentals r
JOIN orders o ON o.id = r.order_id
JOIN tools t ON t.id = r.tool_id
WHERE %s = $1
FOR UPDATE OF r, o`

func (r *rentalRepository) LockPairByRental(ctx context.Context, rentalID int32) (*domain.RentalPair, error) {
	pair, err := r.lockPair(ctx, fmt.Sprintf(lockPairQuery, "r.id"), rentalID)
	if err != nil {
		return nil, notFound(err, domain.ErrRentalNotFound)
	}
	return pair, nil
}

func (r *rentalRepository) LockPairByOrder(ctx context.Context, orderID int32) (*domain.RentalPair, error) {
	pair, err := r.lockPair(ctx, fmt.Sprintf(lockPairQuery, "o.id"), orderID)
	if err != nil {
		return nil, notFound(err, domain.ErrOrderNotFound)
	}
	return pair, nil
}

func (r *rentalRepository) lockPair(ctx context.Context, query string, id int32) (*domain.RentalPair, error) {
	rt := &domain.Rental{}
	o := &domain.Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rt.ID, &rt.OrderID, &rt.ToolID, &rt.RenterID, &rt.ToolName, &rt.StartDate, &rt.EndDate, &rt.Status, &rt.PricePerDayCents, &rt.TotalPriceCents, &rt.CreatedAt, &rt.UpdatedAt,
		&o.ID, &o.UserID, &o.ToolID, &o.StartDate, &o.EndDate, &o.Status, &o.DeliveryType, &o.DeliveryAddress, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.ToolName = rt.ToolName
	return &domain.RentalPair{Order: o, Rental: rt}, nil
}
