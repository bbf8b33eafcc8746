package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopcart/backend/internal/domain"
)

// CartRepository defines persistence operations for carts. Every mutation
// updates the cart's stored aggregates (total_items, total_price) in the same
// transaction as the item change, so the aggregates never drift from the
// item rows.
type CartRepository interface {
	// Create inserts a new empty cart. Returns ErrConflict if the customer
	// already has an active cart.
	Create(ctx context.Context, cart *domain.Cart) error

	// GetByID retrieves a cart with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Cart, error)

	// GetActiveByCustomer retrieves the customer's active cart with items.
	GetActiveByCustomer(ctx context.Context, customerID uuid.UUID) (*domain.Cart, error)

	// AddItem adds quantity of a product to the cart. If the product is
	// already in the cart the quantities accumulate and the line's unit
	// price is refreshed to unitPrice. Returns ErrInvalidInput if the cart
	// is not active.
	AddItem(ctx context.Context, cartID, productID uuid.UUID, quantity int, unitPrice int64) error

	// UpdateItemQuantity sets the quantity of an existing line. The line
	// keeps its snapshotted unit price. Returns ErrNotFound if the product
	// is not in the cart.
	UpdateItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) error

	// RemoveItem deletes a line from the cart. Returns ErrNotFound if the
	// product is not in the cart.
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error
}

// CheckoutRepository converts carts into orders.
type CheckoutRepository interface {
	// ConvertCart atomically creates an order from the cart's current lines
	// and marks the cart converted. The template carries the order identity,
	// status, addresses, payment method, and the requesting customer; items
	// and totals are derived from the cart rows inside the conversion
	// transaction. Returns ErrInvalidInput if the cart is not active,
	// empty, or owned by a different customer.
	ConvertCart(ctx context.Context, cartID uuid.UUID, template *domain.Order) (*domain.Order, error)
}

// OrderFilter defines filter criteria for listing orders.
type OrderFilter struct {
	CustomerID *uuid.UUID
	Status     *string
	Page       int
	PerPage    int
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	// GetByID retrieves an order with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)

	// List returns orders matching the filter along with the total count.
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)

	// UpdateStatus changes the status of an order.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// ProductFilter defines filter criteria for listing products.
type ProductFilter struct {
	CategoryID *uuid.UUID
	Page       int
	PerPage    int
}

// ProductRepository defines persistence operations for catalog products.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error

	// Delete removes a category. Returns ErrConflict if products still
	// reference it.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CustomerRepository defines persistence operations for customers.
type CustomerRepository interface {
	// Create inserts a new customer. Returns ErrAlreadyExists if the email
	// is taken.
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)

	// Update replaces the customer's name and address. The email is fixed.
	Update(ctx context.Context, customer *domain.Customer) error

	// Delete removes a customer. Returns ErrConflict if carts or orders
	// still reference them.
	Delete(ctx context.Context, id uuid.UUID) error
}
