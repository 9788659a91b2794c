package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"example.com/encomendas/services/orders/config"
	"example.com/encomendas/services/orders/internal/models"
	"example.com/encomendas/services/orders/internal/tracing"
)

// Mock stores for testing

type mockCustomerStore struct {
	mock.Mock
}

func (m *mockCustomerStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *mockCustomerStore) GetByTaxID(ctx context.Context, taxID string) (*models.Customer, error) {
	args := m.Called(ctx, taxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *mockCustomerStore) List(ctx context.Context, status string, offset, limit int) ([]models.Customer, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Customer), args.Error(1)
}

func (m *mockCustomerStore) Create(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *mockCustomerStore) Save(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

type mockProductStore struct {
	mock.Mock
}

func (m *mockProductStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *mockProductStore) GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *mockProductStore) GetByName(ctx context.Context, name string) (*models.Product, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *mockProductStore) List(ctx context.Context, minPrice, maxPrice float64, offset, limit int) ([]models.Product, error) {
	args := m.Called(ctx, minPrice, maxPrice, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *mockProductStore) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductStore) Save(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

type mockOrderStore struct {
	mock.Mock
}

func (m *mockOrderStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderStore) List(ctx context.Context, status string, offset, limit int) ([]models.Order, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderStore) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderStore) ListItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OrderItem), args.Error(1)
}

func (m *mockOrderStore) ListLocations(ctx context.Context, orderID uuid.UUID) ([]models.OrderLocation, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OrderLocation), args.Error(1)
}

func (m *mockOrderStore) GetLatestLocation(ctx context.Context, orderID uuid.UUID) (*models.OrderLocation, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderLocation), args.Error(1)
}

func (m *mockOrderStore) CreateAggregate(ctx context.Context, order *models.Order, items []models.OrderItem, location *models.OrderLocation) error {
	args := m.Called(ctx, order, items, location)
	return args.Error(0)
}

func (m *mockOrderStore) SaveAggregate(ctx context.Context, order *models.Order, items []models.OrderItem, replaceItems bool, location *models.OrderLocation) error {
	args := m.Called(ctx, order, items, replaceItems, location)
	return args.Error(0)
}

func (m *mockOrderStore) Save(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderStore) AppendLocation(ctx context.Context, location *models.OrderLocation) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}

func (m *mockOrderStore) SetCurrentLocation(ctx context.Context, orderID, locationID uuid.UUID) error {
	args := m.Called(ctx, orderID, locationID)
	return args.Error(0)
}

func (m *mockOrderStore) DeleteAggregate(ctx context.Context, orderID uuid.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

// noTracer returns a disabled tracer for tests
func noTracer() tracing.Tracer {
	tracer, _ := tracing.NewTracer(config.TracingConfig{})
	return tracer
}
