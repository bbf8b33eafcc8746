package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/shopcart/backend/internal/domain"
	"github.com/shopcart/backend/internal/repository"
	apperrors "github.com/shopcart/backend/pkg/errors"
)

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name        string    `json:"name" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=2000"`
	CategoryID  uuid.UUID `json:"category_id"`
	ImageURL    string    `json:"image_url" validate:"omitempty,url,max=500"`
	Price       int64     `json:"price" validate:"gte=0"`
	Inventory   int       `json:"inventory" validate:"gte=0"`
}

// UpdateProductInput holds the parameters for updating a product. Nil fields
// are left unchanged.
type UpdateProductInput struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url,max=500"`
	Price       *int64  `json:"price" validate:"omitempty,gte=0"`
	Inventory   *int    `json:"inventory" validate:"omitempty,gte=0"`
}

// ProductService implements the business logic for catalog products with a
// read-through Redis cache in front of the store. Cache failures are logged
// and degrade to store reads; they never fail a request.
type ProductService struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     *slog.Logger
}

// NewProductService creates a new product service. The cache client may be
// nil, in which case all reads go to the store.
func NewProductService(
	repo repository.ProductRepository,
	categories repository.CategoryRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		repo:       repo,
		categories: categories,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

func productCacheKey(id uuid.UUID) string {
	return "product:" + id.String()
}

// CreateProduct creates a new catalog product.
func (s *ProductService) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if input.CategoryID != uuid.Nil {
		if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		ImageURL:    input.ImageURL,
		Price:       input.Price,
		Inventory:   input.Inventory,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, wrapStoreErr(err, "create product")
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID.String()),
		slog.Int64("price", product.Price),
	)

	return product, nil
}

// GetByID retrieves a product, serving from cache when possible.
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if s.cache != nil {
		data, err := s.cache.Get(ctx, productCacheKey(id)).Bytes()
		switch {
		case err == nil:
			var p domain.Product
			if err := json.Unmarshal(data, &p); err == nil {
				return &p, nil
			}
			// Corrupt entry falls through to the store and gets rewritten.
		case !errors.Is(err, redis.Nil):
			s.logger.WarnContext(ctx, "product cache read failed",
				slog.String("product_id", id.String()),
				slog.String("error", err.Error()),
			)
		}
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheProduct(ctx, product)
	return product, nil
}

// ListProducts returns products matching the filter with the total count.
func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	return s.repo.List(ctx, filter)
}

// UpdateProduct applies the non-nil fields of the input and invalidates the
// cache entry.
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperrors.InvalidInput("price must not be negative")
		}
		product.Price = *input.Price
	}
	if input.Inventory != nil {
		if *input.Inventory < 0 {
			return nil, apperrors.InvalidInput("inventory must not be negative")
		}
		product.Inventory = *input.Inventory
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, wrapStoreErr(err, "update product")
	}

	s.invalidateProduct(ctx, id)

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", id.String()),
	)

	return product, nil
}

// DeleteProduct removes a product and invalidates its cache entry. Existing
// cart lines keep their snapshotted prices.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return wrapStoreErr(err, "delete product")
	}

	s.invalidateProduct(ctx, id)

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id.String()),
	)
	return nil
}

func (s *ProductService) cacheProduct(ctx context.Context, p *domain.Product) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, productCacheKey(p.ID), data, s.cacheTTL).Err(); err != nil {
		s.logger.WarnContext(ctx, "product cache write failed",
			slog.String("product_id", p.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}

func (s *ProductService) invalidateProduct(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, productCacheKey(id)).Err(); err != nil {
		s.logger.WarnContext(ctx, "product cache invalidation failed",
			slog.String("product_id", id.String()),
			slog.String("error", err.Error()),
		)
	}
}
