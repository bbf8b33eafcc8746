package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shopcart/backend/internal/domain"
	"github.com/shopcart/backend/internal/repository"
)

// CreateCategoryInput holds the parameters for creating a category.
type CreateCategoryInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateCategoryInput holds the parameters for updating a category. Nil
// fields are left unchanged.
type UpdateCategoryInput struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// CategoryService implements the business logic for catalog categories.
type CategoryService struct {
	repo   repository.CategoryRepository
	logger *slog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(repo repository.CategoryRepository, logger *slog.Logger) *CategoryService {
	return &CategoryService{repo: repo, logger: logger}
}

// CreateCategory creates a new category.
func (s *CategoryService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	now := time.Now().UTC()
	category := &domain.Category{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, wrapStoreErr(err, "create category")
	}

	s.logger.InfoContext(ctx, "category created",
		slog.String("category_id", category.ID.String()),
	)

	return category, nil
}

// GetCategory retrieves a category by ID.
func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.repo.GetByID(ctx, id)
}

// ListCategories returns all categories.
func (s *CategoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}

// UpdateCategory applies the non-nil fields of the input.
func (s *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, wrapStoreErr(err, "update category")
	}

	s.logger.InfoContext(ctx, "category updated",
		slog.String("category_id", id.String()),
	)

	return category, nil
}

// DeleteCategory removes a category. Categories still assigned to products
// cannot be deleted.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return wrapStoreErr(err, "delete category")
	}

	s.logger.InfoContext(ctx, "category deleted",
		slog.String("category_id", id.String()),
	)
	return nil
}
