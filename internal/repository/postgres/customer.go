package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shopcart/backend/internal/domain"
	"github.com/shopcart/backend/pkg/database"
	apperrors "github.com/shopcart/backend/pkg/errors"
)

// CustomerRepository implements repository.CustomerRepository using PostgreSQL.
type CustomerRepository struct {
	pool database.DBTX
}

// NewCustomerRepository creates a new PostgreSQL-backed customer repository.
func NewCustomerRepository(pool database.DBTX) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

func marshalAddress(addr *domain.Address) (any, error) {
	if addr == nil {
		return nil, nil
	}
	data, err := json.Marshal(addr)
	if err != nil {
		return nil, fmt.Errorf("marshal address: %w", err)
	}
	return data, nil
}

// Create inserts a new customer.
func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	addressJSON, err := marshalAddress(c.Address)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO customers (id, email, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Email, c.Name, addressJSON, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("customer", "email", c.Email)
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID retrieves a customer by ID.
func (r *CustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var (
		c           domain.Customer
		addressJSON []byte
	)
	err := r.pool.QueryRow(ctx,
		"SELECT id, email, name, address, created_at, updated_at FROM customers WHERE id = $1",
		id,
	).Scan(&c.ID, &c.Email, &c.Name, &addressJSON, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("customer", id.String())
		}
		return nil, fmt.Errorf("scan customer: %w", err)
	}
	if len(addressJSON) > 0 {
		c.Address = &domain.Address{}
		if err := json.Unmarshal(addressJSON, c.Address); err != nil {
			return nil, fmt.Errorf("unmarshal customer address: %w", err)
		}
	}
	return &c, nil
}

// Update replaces the mutable fields of a customer. The email is the account
// identity and stays fixed.
func (r *CustomerRepository) Update(ctx context.Context, c *domain.Customer) error {
	addressJSON, err := marshalAddress(c.Address)
	if err != nil {
		return err
	}

	ct, err := r.pool.Exec(ctx,
		"UPDATE customers SET name = $1, address = $2, updated_at = $3 WHERE id = $4",
		c.Name, addressJSON, time.Now().UTC(), c.ID,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("customer", c.ID.String())
	}
	return nil
}

// Delete removes a customer. Customers with carts or orders cannot be
// deleted; the referencing rows report a conflict.
func (r *CustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.Conflict("customer has carts or orders and cannot be deleted")
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("customer", id.String())
	}
	return nil
}
