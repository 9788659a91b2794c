package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/encomendas/services/orders/internal/domain"
	"example.com/encomendas/services/orders/internal/models"
)

// ProductRepository provides access to catalog data
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetByID gets a product by ID regardless of its status.
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundf("product %s not found", id)
		}
		return nil, errors.Wrap(err, "failed to get product by ID")
	}
	return &product, nil
}

// GetActiveByID gets a product by ID, requiring it to be ACTIVE. A product
// that exists but was soft-deleted counts as not found here.
func (r *ProductRepository) GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, models.StatusActive).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundf("product %s not found or no longer active", id)
		}
		return nil, errors.Wrap(err, "failed to get active product by ID")
	}
	return &product, nil
}

// GetByName gets a product by name. Returns nil without error when no product
// matches; used for duplicate-name checks on create.
func (r *ProductRepository) GetByName(ctx context.Context, name string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get product by name")
	}
	return &product, nil
}

// List returns products within the given price range.
func (r *ProductRepository) List(ctx context.Context, minPrice, maxPrice float64, offset, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("price >= ? AND price <= ?", minPrice, maxPrice).
		Offset(offset).Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}
	return products, nil
}

// Create persists a new product
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return errors.Wrap(err, "failed to create product")
	}
	return nil
}

// Save persists every field of an existing product
func (r *ProductRepository) Save(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return errors.Wrap(err, "failed to save product")
	}
	return nil
}
