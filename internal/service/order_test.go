package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shopcart/backend/internal/domain"
	"github.com/shopcart/backend/internal/repository"
	apperrors "github.com/shopcart/backend/pkg/errors"
)

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Order), args.Int(1), args.Error(2)
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func newTestOrderService(repo *mockOrderRepository) *OrderService {
	return NewOrderService(repo, newTestProducer(), newTestLogger())
}

// --- UpdateStatus Tests ---

func TestUpdateStatus_ValidTransition(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newTestOrderService(repo)
	ctx := context.Background()

	orderID := uuid.New()
	repo.On("GetByID", ctx, orderID).Return(&domain.Order{ID: orderID, Status: domain.OrderStatusPending}, nil)
	repo.On("UpdateStatus", ctx, orderID, domain.OrderStatusProcessing).Return(nil)

	order, err := svc.UpdateStatus(ctx, orderID, domain.OrderStatusProcessing)

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, order.Status)
	repo.AssertExpectations(t)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newTestOrderService(repo)
	ctx := context.Background()

	orderID := uuid.New()
	repo.On("GetByID", ctx, orderID).Return(&domain.Order{ID: orderID, Status: domain.OrderStatusDelivered}, nil)

	_, err := svc.UpdateStatus(ctx, orderID, domain.OrderStatusCancelled)

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	repo.AssertNotCalled(t, "UpdateStatus")
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newTestOrderService(repo)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), "refunded")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "GetByID")
}

func TestUpdateStatus_OrderNotFound(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newTestOrderService(repo)
	ctx := context.Background()

	orderID := uuid.New()
	repo.On("GetByID", ctx, orderID).Return(nil, apperrors.NotFound("order", orderID.String()))

	_, err := svc.UpdateStatus(ctx, orderID, domain.OrderStatusProcessing)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- ListOrders Tests ---

func TestListOrders_InvalidStatusFilter(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newTestOrderService(repo)

	bogus := "bogus"
	_, _, err := svc.ListOrders(context.Background(), repository.OrderFilter{Status: &bogus})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "List")
}

func TestListOrders_PassesFilter(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := newTestOrderService(repo)
	ctx := context.Background()

	customerID := uuid.New()
	filter := repository.OrderFilter{CustomerID: &customerID, Page: 1, PerPage: 10}
	repo.On("List", ctx, filter).Return([]domain.Order{{ID: uuid.New()}}, 1, nil)

	orders, total, err := svc.ListOrders(ctx, filter)

	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, 1, total)
}
