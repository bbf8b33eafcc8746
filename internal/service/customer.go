package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shopcart/backend/internal/domain"
	"github.com/shopcart/backend/internal/repository"
)

// CreateCustomerInput holds the parameters for registering a customer.
type CreateCustomerInput struct {
	Email   string          `json:"email" validate:"required,email"`
	Name    string          `json:"name" validate:"required,max=200"`
	Address *domain.Address `json:"address"`
}

// UpdateCustomerInput holds the parameters for updating a customer. Nil
// fields are left unchanged; the email cannot change.
type UpdateCustomerInput struct {
	Name    *string         `json:"name" validate:"omitempty,max=200"`
	Address *domain.Address `json:"address"`
}

// CustomerService implements the business logic for customer accounts.
type CustomerService struct {
	repo   repository.CustomerRepository
	logger *slog.Logger
}

// NewCustomerService creates a new customer service.
func NewCustomerService(repo repository.CustomerRepository, logger *slog.Logger) *CustomerService {
	return &CustomerService{repo: repo, logger: logger}
}

// CreateCustomer registers a new customer.
func (s *CustomerService) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*domain.Customer, error) {
	now := time.Now().UTC()
	customer := &domain.Customer{
		ID:        uuid.New(),
		Email:     input.Email,
		Name:      input.Name,
		Address:   input.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, wrapStoreErr(err, "create customer")
	}

	s.logger.InfoContext(ctx, "customer created",
		slog.String("customer_id", customer.ID.String()),
	)

	return customer, nil
}

// GetCustomer retrieves a customer by ID.
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateCustomer applies the non-nil fields of the input.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*domain.Customer, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Address != nil {
		customer.Address = input.Address
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, wrapStoreErr(err, "update customer")
	}

	s.logger.InfoContext(ctx, "customer updated",
		slog.String("customer_id", id.String()),
	)

	return customer, nil
}

// DeleteCustomer removes a customer account. Customers with carts or orders
// cannot be deleted.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return wrapStoreErr(err, "delete customer")
	}

	s.logger.InfoContext(ctx, "customer deleted",
		slog.String("customer_id", id.String()),
	)
	return nil
}
