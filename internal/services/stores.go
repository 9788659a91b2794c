package services

import (
	"context"

	"github.com/google/uuid"

	"example.com/encomendas/services/orders/internal/models"
)

// Store contracts the services depend on, implemented by the gorm
// repositories. Kept as interfaces so the business logic can be tested
// against mocks.

type customerStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	GetByTaxID(ctx context.Context, taxID string) (*models.Customer, error)
	List(ctx context.Context, status string, offset, limit int) ([]models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	Save(ctx context.Context, customer *models.Customer) error
}

type productStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetByName(ctx context.Context, name string) (*models.Product, error)
	List(ctx context.Context, minPrice, maxPrice float64, offset, limit int) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Save(ctx context.Context, product *models.Product) error
}

type orderStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, status string, offset, limit int) ([]models.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error)
	ListItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	ListLocations(ctx context.Context, orderID uuid.UUID) ([]models.OrderLocation, error)
	GetLatestLocation(ctx context.Context, orderID uuid.UUID) (*models.OrderLocation, error)
	CreateAggregate(ctx context.Context, order *models.Order, items []models.OrderItem, location *models.OrderLocation) error
	SaveAggregate(ctx context.Context, order *models.Order, items []models.OrderItem, replaceItems bool, location *models.OrderLocation) error
	Save(ctx context.Context, order *models.Order) error
	AppendLocation(ctx context.Context, location *models.OrderLocation) error
	SetCurrentLocation(ctx context.Context, orderID, locationID uuid.UUID) error
	DeleteAggregate(ctx context.Context, orderID uuid.UUID) error
}
