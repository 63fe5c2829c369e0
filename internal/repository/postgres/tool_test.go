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

var toolCols = []string{"id", "owner_id", "owner_name", "name", "description", "price_per_day_cents", "image_url", "status", "created_at"}

func TestToolRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewToolRepository(db)
	tool := &domain.Tool{OwnerID: 1, Name: "Drill", Description: "Cordless", PricePerDayCents: 1500, ImageURL: "https://img/drill.png", Status: domain.ToolStatusActive}

	mock.ExpectQuery("INSERT INTO tools").
		WithArgs(tool.OwnerID, tool.Name, tool.Description, tool.PricePerDayCents, tool.ImageURL, tool.Status).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(2, time.Now()))

	assert.NoError(t, repo.Create(context.Background(), tool))
	assert.Equal(t, int32(2), tool.ID)
}

func TestToolRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewToolRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM tools t JOIN users u ON u.id = t.owner_id WHERE t.id = \\$1").
			WithArgs(int32(2)).
			WillReturnRows(sqlmock.NewRows(toolCols).AddRow(2, 1, "Owner", "Drill", "", 1500, "", "active", time.Now()))

		tool, err := repo.GetByID(ctx, 2)
		require.NoError(t, err)
		assert.True(t, tool.IsActive())
		assert.Equal(t, int64(1500), tool.PricePerDayCents)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM tools").
			WithArgs(int32(3)).
			WillReturnRows(sqlmock.NewRows(toolCols))

		_, err := repo.GetByID(ctx, 3)
		assert.ErrorIs(t, err, domain.ErrToolNotFound)
	})
}

func TestToolRepository_GetForUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewToolRepository(db)
	mock.ExpectQuery("FOR UPDATE OF t").
		WithArgs(int32(2)).
		WillReturnRows(sqlmock.NewRows(toolCols).AddRow(2, 1, "Owner", "Drill", "", 1500, "", "active", time.Now()))

	tool, err := repo.GetForUpdate(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int32(2), tool.ID)
}

func TestToolRepository_Deactivate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewToolRepository(db)
	mock.ExpectExec("UPDATE tools SET status = \\$1 WHERE id = \\$2").
		WithArgs(domain.ToolStatusInactive, int32(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Deactivate(context.Background(), 2))
}

func TestToolRepository_ListActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewToolRepository(db)
	mock.ExpectQuery("WHERE t.status = \\$1").
		WithArgs(domain.ToolStatusActive).
		WillReturnRows(sqlmock.NewRows(toolCols).
			AddRow(2, 1, "Owner", "Drill", "", 1500, "", "active", time.Now()).
			AddRow(3, 1, "Owner", "Saw", "", 900, "", "active", time.Now()))

	tools, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, tools, 2)
}
