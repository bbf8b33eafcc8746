package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shopcart/backend/internal/domain"
	"github.com/shopcart/backend/internal/event"
	"github.com/shopcart/backend/internal/repository"
	"github.com/shopcart/backend/pkg/database"
	apperrors "github.com/shopcart/backend/pkg/errors"
)

// Cart operation upper-bound limits to prevent abuse.
const (
	// MaxQuantityPerItem is the maximum quantity allowed on a single cart line.
	MaxQuantityPerItem = 100
	// MaxItemsPerCart is the maximum number of distinct lines allowed in a cart.
	MaxItemsPerCart = 50
)

// ProductReader is the slice of the product service the cart needs: current
// price and inventory at mutation time.
type ProductReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
}

// AddItemInput holds the parameters for adding a product to a cart.
type AddItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gte=1"`
}

// UpdateQuantityInput holds the parameters for updating a line quantity.
// A quantity of zero removes the line.
type UpdateQuantityInput struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// CartService implements the business logic for cart operations. All
// aggregate bookkeeping lives in the repository transactions; this layer adds
// product lookups, inventory gating, and event publication.
type CartService struct {
	repo      repository.CartRepository
	customers repository.CustomerRepository
	products  ProductReader
	producer  *event.Producer
	logger    *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	repo repository.CartRepository,
	customers repository.CustomerRepository,
	products ProductReader,
	producer *event.Producer,
	logger *slog.Logger,
) *CartService {
	return &CartService{
		repo:      repo,
		customers: customers,
		products:  products,
		producer:  producer,
		logger:    logger,
	}
}

// wrapStoreErr converts connectivity failures into 503s so callers can
// distinguish "the store is down" from "the operation is wrong".
func wrapStoreErr(err error, op string) error {
	if database.IsUnavailable(err) {
		return apperrors.ServiceUnavailable("store temporarily unavailable")
	}
	return fmt.Errorf("%s: %w", op, err)
}

// CreateCart creates a new empty active cart for the customer. A customer can
// hold at most one active cart at a time.
func (s *CartService) CreateCart(ctx context.Context, customerID uuid.UUID) (*domain.Cart, error) {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cart := &domain.Cart{
		ID:         uuid.New(),
		CustomerID: customerID,
		Status:     domain.CartStatusActive,
		Items:      []domain.CartItem{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, cart); err != nil {
		return nil, wrapStoreErr(err, "create cart")
	}

	if err := s.producer.PublishCartCreated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.created event",
			slog.String("cart_id", cart.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart created",
		slog.String("cart_id", cart.ID.String()),
		slog.String("customer_id", customerID.String()),
	)

	return cart, nil
}

// GetCart retrieves a cart with its items.
func (s *CartService) GetCart(ctx context.Context, cartID uuid.UUID) (*domain.Cart, error) {
	return s.repo.GetByID(ctx, cartID)
}

// GetActiveCart retrieves the customer's active cart.
func (s *CartService) GetActiveCart(ctx context.Context, customerID uuid.UUID) (*domain.Cart, error) {
	return s.repo.GetActiveByCustomer(ctx, customerID)
}

// AddItem adds a product to the cart. A repeat add accumulates quantity and
// re-snapshots the line's unit price to the product's current price. The
// inventory gate covers the resulting line quantity, not just the increment.
func (s *CartService) AddItem(ctx context.Context, cartID uuid.UUID, input AddItemInput) (*domain.Cart, error) {
	if input.Quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be greater than 0")
	}
	if input.Quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	cart, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if !cart.IsActive() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("cart is %s and can no longer be modified", cart.Status))
	}

	product, err := s.products.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	lineQuantity := input.Quantity
	if idx := cart.FindItemIndex(input.ProductID); idx >= 0 {
		lineQuantity += cart.Items[idx].Quantity
	} else if len(cart.Items) >= MaxItemsPerCart {
		return nil, apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d items", MaxItemsPerCart))
	}

	if lineQuantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("combined quantity must not exceed %d", MaxQuantityPerItem))
	}
	if !product.HasInventory(lineQuantity) {
		return nil, apperrors.InsufficientInventory(product.ID.String(), lineQuantity, product.Inventory)
	}

	if err := s.repo.AddItem(ctx, cartID, product.ID, input.Quantity, product.Price); err != nil {
		return nil, wrapStoreErr(err, "add cart item")
	}

	return s.finishMutation(ctx, cartID, "item added to cart",
		slog.String("product_id", product.ID.String()),
		slog.Int("quantity", input.Quantity),
	)
}

// UpdateItemQuantity sets the quantity of a line, keeping its snapshotted
// unit price. A quantity of zero removes the line.
func (s *CartService) UpdateItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*domain.Cart, error) {
	if quantity < 0 {
		return nil, apperrors.InvalidInput("quantity must not be negative")
	}
	if quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	if quantity == 0 {
		return s.RemoveItem(ctx, cartID, productID)
	}

	// The product may have been deleted since the line was added; the line
	// keeps its snapshot price either way, so the update only needs the
	// inventory gate when the product still exists.
	product, err := s.products.GetByID(ctx, productID)
	switch {
	case err == nil:
		if !product.HasInventory(quantity) {
			return nil, apperrors.InsufficientInventory(product.ID.String(), quantity, product.Inventory)
		}
	case errors.Is(err, apperrors.ErrNotFound):
	default:
		return nil, err
	}

	if err := s.repo.UpdateItemQuantity(ctx, cartID, productID, quantity); err != nil {
		return nil, wrapStoreErr(err, "update cart item quantity")
	}

	return s.finishMutation(ctx, cartID, "cart item quantity updated",
		slog.String("product_id", productID.String()),
		slog.Int("quantity", quantity),
	)
}

// RemoveItem removes a line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) (*domain.Cart, error) {
	if err := s.repo.RemoveItem(ctx, cartID, productID); err != nil {
		return nil, wrapStoreErr(err, "remove cart item")
	}

	return s.finishMutation(ctx, cartID, "item removed from cart",
		slog.String("product_id", productID.String()),
	)
}

// finishMutation re-reads the cart after a successful mutation, publishes the
// cart.updated event best-effort, and logs the operation.
func (s *CartService) finishMutation(ctx context.Context, cartID uuid.UUID, msg string, attrs ...slog.Attr) (*domain.Cart, error) {
	cart, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		return nil, wrapStoreErr(err, "reload cart")
	}

	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("cart_id", cartID.String()),
			slog.String("error", err.Error()),
		)
	}

	args := make([]any, 0, len(attrs)+1)
	args = append(args, slog.String("cart_id", cartID.String()))
	for _, a := range attrs {
		args = append(args, a)
	}
	s.logger.InfoContext(ctx, msg, args...)

	return cart, nil
}
