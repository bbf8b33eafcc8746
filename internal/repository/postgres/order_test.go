package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcart/backend/internal/domain"
	"github.com/shopcart/backend/internal/repository"
	"github.com/shopcart/backend/pkg/database"
	apperrors "github.com/shopcart/backend/pkg/errors"
)

func newOrderTestRepo(t *testing.T) (*OrderRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return NewOrderRepository(mock), mock
}

const sampleAddressJSON = `{"full_name":"Jamie Rivera","address_line":"42 Harbor Way","city":"Portland","postal_code":"97201","country":"US"}`

// --- GetByID Tests ---

func TestOrderRepository_GetByID_WithItems(t *testing.T) {
	repo, mock := newOrderTestRepo(t)

	orderID := uuid.New()
	customerID := uuid.New()
	cartID := uuid.New()
	productID := uuid.New()
	now := time.Now().UTC()

	itemsJSON := `[{"product_id":"` + productID.String() + `","quantity":2,"unit_price":1999,"subtotal":3998}]`

	mock.ExpectQuery("SELECT(.|\n)*FROM orders o").
		WithArgs(orderID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "customer_id", "cart_id", "status", "payment_method", "subtotal", "tax",
			"shipping_cost", "total_amount", "shipping_address", "billing_address",
			"created_at", "updated_at", "items",
		}).AddRow(
			orderID, customerID, cartID, domain.OrderStatusPending, "card", int64(3998), int64(400),
			int64(1000), int64(5398), []byte(sampleAddressJSON), []byte(sampleAddressJSON),
			now, now, []byte(itemsJSON),
		))

	order, err := repo.GetByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, customerID, order.CustomerID)
	assert.Equal(t, cartID, order.CartID)
	assert.Equal(t, "card", order.PaymentMethod)
	assert.Equal(t, int64(5398), order.TotalAmount)
	assert.Equal(t, "Jamie Rivera", order.ShippingAddress.FullName)
	require.Len(t, order.Items, 1)
	assert.Equal(t, productID, order.Items[0].ProductID)
	assert.Equal(t, int64(3998), order.Items[0].Subtotal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newOrderTestRepo(t)

	orderID := uuid.New()
	mock.ExpectQuery("SELECT(.|\n)*FROM orders o").
		WithArgs(orderID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "customer_id", "cart_id", "status", "payment_method", "subtotal", "tax",
			"shipping_cost", "total_amount", "shipping_address", "billing_address",
			"created_at", "updated_at", "items",
		}))

	_, err := repo.GetByID(context.Background(), orderID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- List Tests ---

func TestOrderRepository_List_FiltersAndPaginates(t *testing.T) {
	repo, mock := newOrderTestRepo(t)

	customerID := uuid.New()
	status := domain.OrderStatusPending
	orderID := uuid.New()
	productID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT(.|\n)*FROM orders(.|\n)*LIMIT").
		WithArgs(customerID, status, 5, 5).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "customer_id", "cart_id", "status", "payment_method", "subtotal", "tax",
			"shipping_cost", "total_amount", "shipping_address", "billing_address",
			"created_at", "updated_at", "total_count",
		}).AddRow(
			orderID, customerID, uuid.New(), status, "card", int64(3998), int64(400),
			int64(1000), int64(5398), []byte(sampleAddressJSON), []byte(sampleAddressJSON),
			now, now, 11,
		))
	mock.ExpectQuery("SELECT order_id, product_id, quantity, unit_price, subtotal(.|\n)*FROM order_items").
		WithArgs([]uuid.UUID{orderID}).
		WillReturnRows(pgxmock.NewRows([]string{"order_id", "product_id", "quantity", "unit_price", "subtotal"}).
			AddRow(orderID, productID, 2, int64(1999), int64(3998)))

	orders, total, err := repo.List(context.Background(), repository.OrderFilter{
		CustomerID: &customerID,
		Status:     &status,
		Page:       2,
		PerPage:    5,
	})
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	require.Len(t, orders, 1)
	assert.Equal(t, orderID, orders[0].ID)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, productID, orders[0].Items[0].ProductID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List_Empty(t *testing.T) {
	repo, mock := newOrderTestRepo(t)

	mock.ExpectQuery("SELECT(.|\n)*FROM orders(.|\n)*LIMIT").
		WithArgs(20, 0).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "customer_id", "cart_id", "status", "payment_method", "subtotal", "tax",
			"shipping_cost", "total_amount", "shipping_address", "billing_address",
			"created_at", "updated_at", "total_count",
		}))

	orders, total, err := repo.List(context.Background(), repository.OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- UpdateStatus Tests ---

func TestOrderRepository_UpdateStatus_Success(t *testing.T) {
	repo, mock := newOrderTestRepo(t)

	orderID := uuid.New()
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(domain.OrderStatusProcessing, pgxmock.AnyArg(), orderID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateStatus(context.Background(), orderID, domain.OrderStatusProcessing)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, mock := newOrderTestRepo(t)

	orderID := uuid.New()
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(domain.OrderStatusCancelled, pgxmock.AnyArg(), orderID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), orderID, domain.OrderStatusCancelled)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
