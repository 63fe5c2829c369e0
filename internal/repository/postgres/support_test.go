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

var supportCols = []string{"id", "user_id", "type", "message", "status", "name", "email", "phone", "address", "created_at"}

func TestSupportRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewSupportRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("UPDATE support_requests SET status = \\$1 WHERE id = \\$2 RETURNING").
			WithArgs(domain.SupportStatusFinished, int32(1)).
			WillReturnRows(sqlmock.NewRows(supportCols).AddRow(1, nil, "general", "help", "finished", "Ann", "ann@example.com", "", "", time.Now()))

		req, err := repo.UpdateStatus(ctx, 1, domain.SupportStatusFinished)
		require.NoError(t, err)
		assert.Nil(t, req.UserID)
		assert.Equal(t, domain.SupportStatusFinished, req.Status)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("UPDATE support_requests").
			WithArgs(domain.SupportStatusRejected, int32(9)).
			WillReturnRows(sqlmock.NewRows(supportCols))

		_, err := repo.UpdateStatus(ctx, 9, domain.SupportStatusRejected)
		assert.ErrorIs(t, err, domain.ErrSupportRequestNotFound)
	})
}

func TestHistoryRepository_ListByOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewHistoryRepository(db)
	mock.ExpectQuery("FROM history WHERE order_id = \\$1").
		WithArgs(int32(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "order_id", "detail", "created_at"}).
			AddRow(1, 3, 10, "Rental of Drill for 2 days", time.Now()))

	entries, err := repo.ListByOrder(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Rental of Drill for 2 days", entries[0].Detail)
}
