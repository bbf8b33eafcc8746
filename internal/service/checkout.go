package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shopcart/backend/internal/domain"
	"github.com/shopcart/backend/internal/event"
	"github.com/shopcart/backend/internal/repository"
)

// ConvertCartInput holds the parameters for converting a cart into an order.
// The cart must belong to CustomerID. BillingAddress defaults to the shipping
// address when omitted. PaymentMethod is captured on the order verbatim;
// charging happens elsewhere.
type ConvertCartInput struct {
	CartID          uuid.UUID       `json:"cart_id" validate:"required"`
	CustomerID      uuid.UUID       `json:"customer_id" validate:"required"`
	ShippingAddress domain.Address  `json:"shipping_address" validate:"required"`
	BillingAddress  *domain.Address `json:"billing_address"`
	PaymentMethod   string          `json:"payment_method" validate:"required,max=50"`
}

// CheckoutService converts active carts into pending orders.
type CheckoutService struct {
	repo     repository.CheckoutRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(repo repository.CheckoutRepository, producer *event.Producer, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// ConvertCart turns the cart into a pending order. The order snapshot, the
// pricing (10% tax on the subtotal plus flat shipping), and the cart's status
// flip to converted all commit in a single store transaction, so a cart
// converts exactly once and an order can never exist without its source cart
// being converted.
func (s *CheckoutService) ConvertCart(ctx context.Context, input ConvertCartInput) (*domain.Order, error) {
	billing := input.ShippingAddress
	if input.BillingAddress != nil {
		billing = *input.BillingAddress
	}

	now := time.Now().UTC()
	template := &domain.Order{
		ID:              uuid.New(),
		CustomerID:      input.CustomerID,
		Status:          domain.OrderStatusPending,
		PaymentMethod:   input.PaymentMethod,
		ShippingAddress: input.ShippingAddress,
		BillingAddress:  billing,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	order, err := s.repo.ConvertCart(ctx, input.CartID, template)
	if err != nil {
		return nil, wrapStoreErr(err, "convert cart")
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart converted to order",
		slog.String("cart_id", input.CartID.String()),
		slog.String("order_id", order.ID.String()),
		slog.Int64("total_amount", order.TotalAmount),
	)

	return order, nil
}
