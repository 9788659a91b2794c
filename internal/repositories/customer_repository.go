package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/encomendas/services/orders/internal/domain"
	"example.com/encomendas/services/orders/internal/models"
)

// CustomerRepository provides access to customer data
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// GetByID gets a customer by ID. Soft-deleted customers are still returned;
// callers decide whether INACTIVE matters.
func (r *CustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundf("customer %s not found", id)
		}
		return nil, errors.Wrap(err, "failed to get customer by ID")
	}
	return &customer, nil
}

// GetByTaxID gets a customer by tax ID. Returns nil without error when no
// customer matches; used for pre-create duplicate checks.
func (r *CustomerRepository) GetByTaxID(ctx context.Context, taxID string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where("tax_id = ?", taxID).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get customer by tax ID")
	}
	return &customer, nil
}

// List returns customers, optionally filtered by status.
func (r *CustomerRepository) List(ctx context.Context, status string, offset, limit int) ([]models.Customer, error) {
	var customers []models.Customer
	query := r.db.WithContext(ctx)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Offset(offset).Limit(limit).Find(&customers).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list customers")
	}
	return customers, nil
}

// Create persists a new customer
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return errors.Wrap(err, "failed to create customer")
	}
	return nil
}

// Save persists every field of an existing customer
func (r *CustomerRepository) Save(ctx context.Context, customer *models.Customer) error {
	if err := r.db.WithContext(ctx).Save(customer).Error; err != nil {
		return errors.Wrap(err, "failed to save customer")
	}
	return nil
}
