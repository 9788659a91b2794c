package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"example.com/encomendas/services/orders/internal/metrics"
	"example.com/encomendas/services/orders/internal/models"
	"example.com/encomendas/services/orders/internal/repositories"
)

// CreateCustomerInput carries the fields for customer registration. The
// plaintext credential is hashed before anything touches the store.
type CreateCustomerInput struct {
	Name     string
	Email    string
	TaxID    string
	Phone    string
	Address  string
	Password string
}

// UpdateCustomerInput carries a partial customer mutation; nil fields are
// left unchanged. A supplied password is re-hashed.
type UpdateCustomerInput struct {
	Name     *string
	Email    *string
	TaxID    *string
	Phone    *string
	Address  *string
	Password *string
}

// CustomerService handles customer management
type CustomerService struct {
	customers customerStore
	metrics   *metrics.Metrics
}

// NewCustomerService creates a new customer service
func NewCustomerService(db *gorm.DB, metricsCollector *metrics.Metrics) *CustomerService {
	return &CustomerService{
		customers: repositories.NewCustomerRepository(db),
		metrics:   metricsCollector,
	}
}

// CreateCustomer registers a customer, hashing the supplied credential with
// bcrypt. Plaintext is never persisted.
func (s *CustomerService) CreateCustomer(ctx context.Context, in CreateCustomerInput) (*models.Customer, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	customer := &models.Customer{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		TaxID:        in.TaxID,
		Phone:        in.Phone,
		Address:      in.Address,
		PasswordHash: string(hash),
		Status:       models.StatusActive,
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}

	log.Info().
		Str("customer_id", customer.ID.String()).
		Str("tax_id", customer.TaxID).
		Msg("customer created")

	if s.metrics != nil {
		s.metrics.IncrementCounter("customers_created")
	}

	return customer, nil
}

// GetCustomer returns a customer by ID, INACTIVE included.
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

// LookupByTaxID returns the customer holding the given tax ID, or nil when
// none does. Used by the request surface for duplicate checks before create.
func (s *CustomerService) LookupByTaxID(ctx context.Context, taxID string) (*models.Customer, error) {
	return s.customers.GetByTaxID(ctx, taxID)
}

// ListCustomers returns customers, optionally filtered by status.
func (s *CustomerService) ListCustomers(ctx context.Context, status string, offset, limit int) ([]models.Customer, error) {
	return s.customers.List(ctx, status, offset, limit)
}

// UpdateCustomer applies a partial mutation; only supplied fields change.
// A supplied credential is re-hashed, an absent one leaves the hash alone.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, in UpdateCustomerInput) (*models.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		customer.Name = *in.Name
	}
	if in.Email != nil {
		customer.Email = *in.Email
	}
	if in.TaxID != nil {
		customer.TaxID = *in.TaxID
	}
	if in.Phone != nil {
		customer.Phone = *in.Phone
	}
	if in.Address != nil {
		customer.Address = *in.Address
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.Wrap(err, "failed to hash password")
		}
		customer.PasswordHash = string(hash)
	}

	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// DeleteCustomer soft-deletes a customer by flipping the status to INACTIVE.
// The row stays in place. Repeating the call succeeds; only a never-existing
// ID fails.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return err
	}

	customer.Status = models.StatusInactive
	if err := s.customers.Save(ctx, customer); err != nil {
		return err
	}

	log.Info().Str("customer_id", id.String()).Msg("customer deactivated")
	return nil
}

// CheckPassword verifies a plaintext credential against the stored hash.
func (s *CustomerService) CheckPassword(customer *models.Customer, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)) == nil
}
