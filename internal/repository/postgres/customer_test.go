package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcart/backend/internal/domain"
	"github.com/shopcart/backend/pkg/database"
	apperrors "github.com/shopcart/backend/pkg/errors"
)

func newCustomerTestRepo(t *testing.T) (*CustomerRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return NewCustomerRepository(mock), mock
}

func sampleCustomer() *domain.Customer {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Customer{
		ID:    uuid.New(),
		Email: "jamie@example.com",
		Name:  "Jamie Rivera",
		Address: &domain.Address{
			FullName:    "Jamie Rivera",
			AddressLine: "42 Harbor Way",
			City:        "Portland",
			PostalCode:  "97201",
			Country:     "US",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCustomerRepository_Create_Success(t *testing.T) {
	repo, mock := newCustomerTestRepo(t)

	c := sampleCustomer()

	mock.ExpectExec("INSERT INTO customers").
		WithArgs(c.ID, c.Email, c.Name, pgxmock.AnyArg(), c.CreatedAt, c.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), c)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newCustomerTestRepo(t)

	c := sampleCustomer()

	mock.ExpectExec("INSERT INTO customers").
		WithArgs(c.ID, c.Email, c.Name, pgxmock.AnyArg(), c.CreatedAt, c.UpdatedAt).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	err := repo.Create(context.Background(), c)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepository_GetByID_WithAddress(t *testing.T) {
	repo, mock := newCustomerTestRepo(t)

	customerID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT id, email, name, address").
		WithArgs(customerID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "name", "address", "created_at", "updated_at"}).
			AddRow(customerID, "jamie@example.com", "Jamie Rivera", []byte(sampleAddressJSON), now, now))

	c, err := repo.GetByID(context.Background(), customerID)
	require.NoError(t, err)
	assert.Equal(t, "jamie@example.com", c.Email)
	require.NotNil(t, c.Address)
	assert.Equal(t, "Portland", c.Address.City)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepository_GetByID_NoAddress(t *testing.T) {
	repo, mock := newCustomerTestRepo(t)

	customerID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT id, email, name, address").
		WithArgs(customerID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "name", "address", "created_at", "updated_at"}).
			AddRow(customerID, "jamie@example.com", "Jamie Rivera", []byte(nil), now, now))

	c, err := repo.GetByID(context.Background(), customerID)
	require.NoError(t, err)
	assert.Nil(t, c.Address)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newCustomerTestRepo(t)

	customerID := uuid.New()
	mock.ExpectQuery("SELECT id, email, name, address").
		WithArgs(customerID).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), customerID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepository_Update_Success(t *testing.T) {
	repo, mock := newCustomerTestRepo(t)

	c := sampleCustomer()

	mock.ExpectExec("UPDATE customers SET name").
		WithArgs(c.Name, pgxmock.AnyArg(), pgxmock.AnyArg(), c.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), c)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepository_Update_NotFound(t *testing.T) {
	repo, mock := newCustomerTestRepo(t)

	c := sampleCustomer()

	mock.ExpectExec("UPDATE customers SET name").
		WithArgs(c.Name, pgxmock.AnyArg(), pgxmock.AnyArg(), c.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), c)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepository_Delete_Success(t *testing.T) {
	repo, mock := newCustomerTestRepo(t)

	customerID := uuid.New()
	mock.ExpectExec("DELETE FROM customers").
		WithArgs(customerID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), customerID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepository_Delete_HasOrders_Conflict(t *testing.T) {
	repo, mock := newCustomerTestRepo(t)

	customerID := uuid.New()
	mock.ExpectExec("DELETE FROM customers").
		WithArgs(customerID).
		WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode})

	err := repo.Delete(context.Background(), customerID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
