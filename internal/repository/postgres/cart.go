package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shopcart/backend/internal/domain"
	"github.com/shopcart/backend/pkg/database"
	apperrors "github.com/shopcart/backend/pkg/errors"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode
}

// CartRepository implements repository.CartRepository using PostgreSQL.
//
// Aggregate maintenance invariant: every item mutation runs in a transaction
// that first locks the cart row (SELECT ... FOR UPDATE), changes the item row,
// and applies the exact delta to total_items and total_price. Concurrent
// mutations on the same cart serialize on the row lock, so the stored
// aggregates always equal the sums over cart_items.
type CartRepository struct {
	pool database.DBTX
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool database.DBTX) *CartRepository {
	return &CartRepository{pool: pool}
}

// Create inserts a new empty cart. The partial unique index on
// carts(customer_id) WHERE status = 'active' rejects a second active cart
// even when two create requests race.
func (r *CartRepository) Create(ctx context.Context, c *domain.Cart) error {
	query := `
		INSERT INTO carts (id, customer_id, status, total_items, total_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		c.ID, c.CustomerID, c.Status, c.TotalItems, c.TotalPrice, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("customer already has an active cart")
		}
		return fmt.Errorf("insert cart: %w", err)
	}
	return nil
}

const cartWithItemsQuery = `
	SELECT
		c.id, c.customer_id, c.status, c.total_items, c.total_price, c.created_at, c.updated_at,
		COALESCE(
			JSONB_AGG(
				JSONB_BUILD_OBJECT(
					'product_id', ci.product_id,
					'quantity', ci.quantity,
					'unit_price', ci.unit_price,
					'added_at', ci.added_at,
					'updated_at', ci.updated_at
				) ORDER BY ci.added_at
			) FILTER (WHERE ci.product_id IS NOT NULL),
			'[]'::jsonb
		) AS items
	FROM carts c
	LEFT JOIN cart_items ci ON c.id = ci.cart_id
	%s
	GROUP BY c.id, c.customer_id, c.status, c.total_items, c.total_price, c.created_at, c.updated_at`

// GetByID retrieves a cart by ID, eagerly loading its items via JSONB_AGG to
// avoid a second round-trip.
func (r *CartRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Cart, error) {
	query := fmt.Sprintf(cartWithItemsQuery, "WHERE c.id = $1")
	return r.scanCart(r.pool.QueryRow(ctx, query, id), "cart", id.String())
}

// GetActiveByCustomer retrieves the customer's active cart with items.
func (r *CartRepository) GetActiveByCustomer(ctx context.Context, customerID uuid.UUID) (*domain.Cart, error) {
	query := fmt.Sprintf(cartWithItemsQuery, "WHERE c.customer_id = $1 AND c.status = 'active'")
	return r.scanCart(r.pool.QueryRow(ctx, query, customerID), "active cart for customer", customerID.String())
}

func (r *CartRepository) scanCart(row pgx.Row, resource, id string) (*domain.Cart, error) {
	var (
		c         domain.Cart
		itemsJSON []byte
	)
	err := row.Scan(
		&c.ID, &c.CustomerID, &c.Status, &c.TotalItems, &c.TotalPrice, &c.CreatedAt, &c.UpdatedAt,
		&itemsJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(resource, id)
		}
		return nil, fmt.Errorf("scan cart: %w", err)
	}

	if err := unmarshalItems(itemsJSON, &c.Items); err != nil {
		return nil, fmt.Errorf("unmarshal cart items: %w", err)
	}
	return &c, nil
}

// lockActiveCart locks the cart row for the duration of the transaction and
// verifies the cart can still be mutated.
func lockActiveCart(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error {
	var status string
	err := tx.QueryRow(ctx, "SELECT status FROM carts WHERE id = $1 FOR UPDATE", cartID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("cart", cartID.String())
		}
		return fmt.Errorf("lock cart: %w", err)
	}
	if status != domain.CartStatusActive {
		return apperrors.InvalidInput(fmt.Sprintf("cart is %s and can no longer be modified", status))
	}
	return nil
}

// applyCartDelta adjusts the stored aggregates by the exact change the item
// mutation made. Must run inside the same transaction.
func applyCartDelta(ctx context.Context, tx pgx.Tx, cartID uuid.UUID, deltaItems int, deltaPrice int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE carts
		SET total_items = total_items + $1, total_price = total_price + $2, updated_at = $3
		WHERE id = $4`,
		deltaItems, deltaPrice, time.Now().UTC(), cartID,
	)
	if err != nil {
		return fmt.Errorf("update cart aggregates: %w", err)
	}
	return nil
}

// AddItem adds quantity of a product to the cart. A repeat add accumulates
// the quantity and refreshes the line's unit price to the current product
// price, so the price delta accounts for repricing the previously held units
// as well.
func (r *CartRepository) AddItem(ctx context.Context, cartID, productID uuid.UUID, quantity int, unitPrice int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockActiveCart(ctx, tx, cartID); err != nil {
		return err
	}

	var (
		oldQuantity  int
		oldUnitPrice int64
	)
	err = tx.QueryRow(ctx,
		"SELECT quantity, unit_price FROM cart_items WHERE cart_id = $1 AND product_id = $2",
		cartID, productID,
	).Scan(&oldQuantity, &oldUnitPrice)

	var deltaPrice int64
	now := time.Now().UTC()

	switch {
	case err == nil:
		newQuantity := oldQuantity + quantity
		_, err = tx.Exec(ctx, `
			UPDATE cart_items
			SET quantity = $1, unit_price = $2, updated_at = $3
			WHERE cart_id = $4 AND product_id = $5`,
			newQuantity, unitPrice, now, cartID, productID,
		)
		if err != nil {
			return fmt.Errorf("update cart item: %w", err)
		}
		deltaPrice = unitPrice*int64(newQuantity) - oldUnitPrice*int64(oldQuantity)

	case errors.Is(err, pgx.ErrNoRows):
		_, err = tx.Exec(ctx, `
			INSERT INTO cart_items (cart_id, product_id, quantity, unit_price, added_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)`,
			cartID, productID, quantity, unitPrice, now,
		)
		if err != nil {
			return fmt.Errorf("insert cart item: %w", err)
		}
		deltaPrice = unitPrice * int64(quantity)

	default:
		return fmt.Errorf("query cart item: %w", err)
	}

	if err := applyCartDelta(ctx, tx, cartID, quantity, deltaPrice); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// UpdateItemQuantity sets the quantity of an existing line, keeping the
// snapshotted unit price.
func (r *CartRepository) UpdateItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockActiveCart(ctx, tx, cartID); err != nil {
		return err
	}

	var (
		oldQuantity int
		unitPrice   int64
	)
	err = tx.QueryRow(ctx,
		"SELECT quantity, unit_price FROM cart_items WHERE cart_id = $1 AND product_id = $2",
		cartID, productID,
	).Scan(&oldQuantity, &unitPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("cart item", productID.String())
		}
		return fmt.Errorf("query cart item: %w", err)
	}

	_, err = tx.Exec(ctx,
		"UPDATE cart_items SET quantity = $1, updated_at = $2 WHERE cart_id = $3 AND product_id = $4",
		quantity, time.Now().UTC(), cartID, productID,
	)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}

	deltaItems := quantity - oldQuantity
	deltaPrice := unitPrice * int64(quantity-oldQuantity)
	if err := applyCartDelta(ctx, tx, cartID, deltaItems, deltaPrice); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RemoveItem deletes a line and subtracts its full contribution from the
// aggregates. Removing a product that is not in the cart is NotFound, which
// makes a concurrent double-remove resolve to one success and one 404.
func (r *CartRepository) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockActiveCart(ctx, tx, cartID); err != nil {
		return err
	}

	var (
		quantity  int
		unitPrice int64
	)
	err = tx.QueryRow(ctx, `
		DELETE FROM cart_items
		WHERE cart_id = $1 AND product_id = $2
		RETURNING quantity, unit_price`,
		cartID, productID,
	).Scan(&quantity, &unitPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("cart item", productID.String())
		}
		return fmt.Errorf("delete cart item: %w", err)
	}

	if err := applyCartDelta(ctx, tx, cartID, -quantity, -unitPrice*int64(quantity)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
