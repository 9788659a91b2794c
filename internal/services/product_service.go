package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"example.com/encomendas/services/orders/internal/domain"
	"example.com/encomendas/services/orders/internal/metrics"
	"example.com/encomendas/services/orders/internal/models"
	"example.com/encomendas/services/orders/internal/repositories"
)

// CreateProductInput carries the fields for catalog registration.
type CreateProductInput struct {
	Name        string
	Price       float64
	Description *string
}

// UpdateProductInput carries a partial product mutation; nil fields are left
// unchanged.
type UpdateProductInput struct {
	Name        *string
	Price       *float64
	Description *string
}

// ProductService handles catalog management
type ProductService struct {
	products productStore
	metrics  *metrics.Metrics
}

// NewProductService creates a new product service
func NewProductService(db *gorm.DB, metricsCollector *metrics.Metrics) *ProductService {
	return &ProductService{
		products: repositories.NewProductRepository(db),
		metrics:  metricsCollector,
	}
}

// CreateProduct registers a product. An ACTIVE product with the same name
// blocks creation; an INACTIVE namesake does not.
func (s *ProductService) CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	existing, err := s.products.GetByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status != models.StatusInactive {
		return nil, domain.Conflictf("product named %q already exists", in.Name)
	}

	product := &models.Product{
		ID:          uuid.New(),
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Status:      models.StatusActive,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	log.Info().
		Str("product_id", product.ID.String()).
		Str("name", product.Name).
		Float64("price", product.Price).
		Msg("product created")

	if s.metrics != nil {
		s.metrics.IncrementCounter("products_created")
	}

	return product, nil
}

// GetProduct returns a product by ID, INACTIVE included.
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.products.GetByID(ctx, id)
}

// ListProducts returns products within the given price range.
func (s *ProductService) ListProducts(ctx context.Context, minPrice, maxPrice float64, offset, limit int) ([]models.Product, error) {
	return s.products.List(ctx, minPrice, maxPrice, offset, limit)
}

// UpdateProduct applies a partial mutation; only supplied fields change. The
// last-updated timestamp is touched on every save. Orders that captured the
// old price keep their totals.
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, in UpdateProductInput) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Description != nil {
		product.Description = in.Description
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct soft-deletes a product by flipping the status to INACTIVE.
// Idempotent; only a never-existing ID fails.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return err
	}

	product.Status = models.StatusInactive
	if err := s.products.Save(ctx, product); err != nil {
		return err
	}

	log.Info().Str("product_id", id.String()).Msg("product deactivated")
	return nil
}
