package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shopcart/backend/internal/domain"
	"github.com/shopcart/backend/pkg/database"
	apperrors "github.com/shopcart/backend/pkg/errors"
)

// CheckoutRepository implements repository.CheckoutRepository using PostgreSQL.
type CheckoutRepository struct {
	pool database.DBTX
}

// NewCheckoutRepository creates a new PostgreSQL-backed checkout repository.
func NewCheckoutRepository(pool database.DBTX) *CheckoutRepository {
	return &CheckoutRepository{pool: pool}
}

// ConvertCart creates an order from the cart and marks the cart converted,
// all inside one transaction. The cart row is locked first, so the item lines
// read here are exactly the lines the order is built from, and a concurrent
// conversion or mutation of the same cart waits and then fails the status
// check. The unique index on orders(cart_id) backs this up at the storage
// layer. When the template names a customer, the cart must belong to them.
func (r *CheckoutRepository) ConvertCart(ctx context.Context, cartID uuid.UUID, template *domain.Order) (*domain.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		customerID uuid.UUID
		status     string
		totalItems int
		totalPrice int64
	)
	err = tx.QueryRow(ctx,
		"SELECT customer_id, status, total_items, total_price FROM carts WHERE id = $1 FOR UPDATE",
		cartID,
	).Scan(&customerID, &status, &totalItems, &totalPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("cart", cartID.String())
		}
		return nil, fmt.Errorf("lock cart: %w", err)
	}

	if template.CustomerID != uuid.Nil && template.CustomerID != customerID {
		return nil, apperrors.InvalidInput("cart does not belong to customer")
	}
	if status != domain.CartStatusActive {
		return nil, apperrors.InvalidInput(fmt.Sprintf("cart is %s and cannot be converted", status))
	}
	if totalItems == 0 {
		return nil, apperrors.InvalidInput("cannot convert an empty cart")
	}

	rows, err := tx.Query(ctx,
		"SELECT product_id, quantity, unit_price FROM cart_items WHERE cart_id = $1 ORDER BY added_at",
		cartID,
	)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		item.Subtotal = item.UnitPrice * int64(item.Quantity)
		items = append(items, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}

	order := *template
	order.CustomerID = customerID
	order.CartID = cartID
	order.Items = items
	order.Subtotal = totalPrice
	order.Tax, order.ShippingCost, order.TotalAmount = domain.ComputeOrderTotals(totalPrice)

	shippingJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return nil, fmt.Errorf("marshal shipping address: %w", err)
	}
	billingJSON, err := json.Marshal(order.BillingAddress)
	if err != nil {
		return nil, fmt.Errorf("marshal billing address: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, customer_id, cart_id, status, payment_method, subtotal, tax, shipping_cost, total_amount, shipping_address, billing_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		order.ID, order.CustomerID, order.CartID, order.Status, order.PaymentMethod,
		order.Subtotal, order.Tax, order.ShippingCost, order.TotalAmount,
		shippingJSON, billingJSON, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5)`,
			order.ID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal,
		)
		if err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
	}

	ct, err := tx.Exec(ctx,
		"UPDATE carts SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4",
		domain.CartStatusConverted, order.CreatedAt, cartID, domain.CartStatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("mark cart converted: %w", err)
	}
	if ct.RowsAffected() == 0 {
		// Unreachable while the row lock is held; treated as a failed
		// conversion rather than a silent partial write.
		return nil, apperrors.ConversionFailed(errors.New("cart status changed during conversion"))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.ConversionFailed(fmt.Errorf("commit transaction: %w", err))
	}

	return &order, nil
}
