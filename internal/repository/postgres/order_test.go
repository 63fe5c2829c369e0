package postgres_test

import (
	"context"
	"testing"
	"time"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderCols = []string{"id", "user_id", "tool_id", "name", "start_date", "end_date", "status", "delivery_type", "delivery_address", "created_at", "updated_at"}

func TestOrderRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewOrderRepository(db)
	start := time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC)
	order := &domain.Order{
		UserID:       3,
		ToolID:       2,
		StartDate:    start,
		EndDate:      start.Add(48 * time.Hour),
		Status:       domain.StatusPending,
		DeliveryType: domain.DeliveryTypePickup,
	}

	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(order.UserID, order.ToolID, order.StartDate, order.EndDate, order.Status, order.DeliveryType, "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(10, time.Now(), time.Now()))

	err = repo.Create(context.Background(), order)
	assert.NoError(t, err)
	assert.Equal(t, int32(10), order.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewOrderRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows(orderCols).
		AddRow(11, 3, 2, "Saw", now, now, "completed", "pickup", "", now, now).
		AddRow(10, 3, 2, "Drill", now, now, "pending", "delivery", "1 Main St", now, now)
	mock.ExpectQuery("SELECT (.+) FROM orders o JOIN tools t ON t.id = o.tool_id WHERE o.user_id = \\$1").
		WithArgs(int32(3)).
		WillReturnRows(rows)

	orders, err := repo.ListByUser(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, domain.StatusCompleted, orders[0].Status)
	assert.Equal(t, "1 Main St", orders[1].DeliveryAddress)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewOrderRepository(db)
	mock.ExpectExec("UPDATE orders SET status = \\$1").
		WithArgs(domain.StatusCancelled, int32(10), domain.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateStatus(context.Background(), 10, domain.StatusPending, domain.StatusCancelled)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewOrderRepository(db)
	mock.ExpectQuery("SELECT (.+) FROM orders").
		WithArgs(int32(5)).
		WillReturnRows(sqlmock.NewRows(orderCols))

	_, err = repo.GetByID(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
