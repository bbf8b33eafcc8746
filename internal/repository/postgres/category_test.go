package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcart/backend/internal/domain"
	"github.com/shopcart/backend/pkg/database"
	apperrors "github.com/shopcart/backend/pkg/errors"
)

func newCategoryTestRepo(t *testing.T) (*CategoryRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return NewCategoryRepository(mock), mock
}

func TestCategoryRepository_List_OrderedByName(t *testing.T) {
	repo, mock := newCategoryTestRepo(t)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, name, description(.|\n)*ORDER BY name").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "created_at", "updated_at"}).
			AddRow(uuid.New(), "Audio", "", now, now).
			AddRow(uuid.New(), "Books", "Paper and digital", now, now))

	categories, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Audio", categories[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_Update_Success(t *testing.T) {
	repo, mock := newCategoryTestRepo(t)

	c := &domain.Category{ID: uuid.New(), Name: "Audio", Description: "Speakers and headphones"}

	mock.ExpectExec("UPDATE categories SET name").
		WithArgs(c.Name, c.Description, pgxmock.AnyArg(), c.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), c)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_Update_NotFound(t *testing.T) {
	repo, mock := newCategoryTestRepo(t)

	c := &domain.Category{ID: uuid.New(), Name: "Audio"}

	mock.ExpectExec("UPDATE categories SET name").
		WithArgs(c.Name, c.Description, pgxmock.AnyArg(), c.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), c)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_Delete_Success(t *testing.T) {
	repo, mock := newCategoryTestRepo(t)

	categoryID := uuid.New()
	mock.ExpectExec("DELETE FROM categories").
		WithArgs(categoryID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), categoryID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_Delete_HasProducts_Conflict(t *testing.T) {
	repo, mock := newCategoryTestRepo(t)

	categoryID := uuid.New()
	mock.ExpectExec("DELETE FROM categories").
		WithArgs(categoryID).
		WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode})

	err := repo.Delete(context.Background(), categoryID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
