package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/encomendas/services/orders/internal/domain"
	"example.com/encomendas/services/orders/internal/models"
)

// OrderRepository provides access to the order aggregate: the order row, its
// line items and its location history. Multi-step writes run inside a single
// transaction so a mid-sequence failure can never leave a half-built order.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// GetByID gets an order by ID with its items and current location loaded.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("CurrentLocation").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundf("order %s not found", id)
		}
		return nil, errors.Wrap(err, "failed to get order by ID")
	}
	return &order, nil
}

// List returns orders, optionally filtered by status.
func (r *OrderRepository) List(ctx context.Context, status string, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	query := r.db.WithContext(ctx).Preload("Items").Preload("CurrentLocation")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Offset(offset).Limit(limit).Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}
	return orders, nil
}

// ListByCustomer returns every order belonging to a customer.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("CurrentLocation").
		Where("customer_id = ?", customerID).
		Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders by customer")
	}
	return orders, nil
}

// ListItems returns the line items of an order.
func (r *OrderRepository) ListItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list order items")
	}
	return items, nil
}

// ListLocations returns an order's location history in append order.
func (r *OrderRepository) ListLocations(ctx context.Context, orderID uuid.UUID) ([]models.OrderLocation, error) {
	var locations []models.OrderLocation
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("recorded_at ASC").
		Find(&locations).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list order locations")
	}
	return locations, nil
}

// GetLatestLocation returns the newest location event of an order, or nil
// when the order has no history.
func (r *OrderRepository) GetLatestLocation(ctx context.Context, orderID uuid.UUID) (*models.OrderLocation, error) {
	var location models.OrderLocation
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("recorded_at DESC").
		First(&location).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get latest order location")
	}
	return &location, nil
}

// CreateAggregate persists a new order together with its line items and its
// initial location event, and points the order at that event. All or nothing.
func (r *OrderRepository) CreateAggregate(ctx context.Context, order *models.Order, items []models.OrderItem, location *models.OrderLocation) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "CurrentLocation").Create(order).Error; err != nil {
			return errors.Wrap(err, "failed to create order")
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return errors.Wrap(err, "failed to create order items")
			}
		}

		location.OrderID = order.ID
		if err := tx.Create(location).Error; err != nil {
			return errors.Wrap(err, "failed to create initial order location")
		}

		order.CurrentLocationID = &location.ID
		if err := tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("current_location_id", location.ID).Error; err != nil {
			return errors.Wrap(err, "failed to set current order location")
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "order create transaction failed")
	}
	return nil
}

// SaveAggregate persists a mutated order. When replaceItems is set, every
// existing line item is removed and the supplied set inserted in its place.
// When location is non-nil, a new event is appended and the order repointed.
// The whole mutation is one transaction.
func (r *OrderRepository) SaveAggregate(ctx context.Context, order *models.Order, items []models.OrderItem, replaceItems bool, location *models.OrderLocation) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if replaceItems {
			if err := tx.Where("order_id = ?", order.ID).
				Delete(&models.OrderItem{}).Error; err != nil {
				return errors.Wrap(err, "failed to delete existing order items")
			}
			for i := range items {
				items[i].OrderID = order.ID
			}
			if len(items) > 0 {
				if err := tx.Create(&items).Error; err != nil {
					return errors.Wrap(err, "failed to create replacement order items")
				}
			}
		}

		if location != nil {
			location.OrderID = order.ID
			if err := tx.Create(location).Error; err != nil {
				return errors.Wrap(err, "failed to append order location")
			}
			order.CurrentLocationID = &location.ID
		}

		if err := tx.Omit("Items", "CurrentLocation").Save(order).Error; err != nil {
			return errors.Wrap(err, "failed to save order")
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "order update transaction failed")
	}
	return nil
}

// Save persists every scalar field of an existing order.
func (r *OrderRepository) Save(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).
		Omit("Items", "CurrentLocation").
		Save(order).Error; err != nil {
		return errors.Wrap(err, "failed to save order")
	}
	return nil
}

// AppendLocation appends a location event to an order's history and repoints
// the order's current location at it. History is never rewritten.
func (r *OrderRepository) AppendLocation(ctx context.Context, location *models.OrderLocation) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(location).Error; err != nil {
			return errors.Wrap(err, "failed to create order location")
		}

		if err := tx.Model(&models.Order{}).
			Where("id = ?", location.OrderID).
			Update("current_location_id", location.ID).Error; err != nil {
			return errors.Wrap(err, "failed to repoint current order location")
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "append location transaction failed")
	}
	return nil
}

// SetCurrentLocation points an order at an existing event of its own history.
// Used by reconciliation to repair drifted pointers.
func (r *OrderRepository) SetCurrentLocation(ctx context.Context, orderID uuid.UUID, locationID uuid.UUID) error {
	if err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("current_location_id", locationID).Error; err != nil {
		return errors.Wrap(err, "failed to set current order location")
	}
	return nil
}

// DeleteAggregate physically removes an order with its items and location
// history. The pointer is cleared first so the event rows can go without
// tripping the foreign key, then items, then events, then the order row.
func (r *OrderRepository) DeleteAggregate(ctx context.Context, orderID uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).
			Where("id = ?", orderID).
			Update("current_location_id", nil).Error; err != nil {
			return errors.Wrap(err, "failed to clear current order location")
		}

		if err := tx.Where("order_id = ?", orderID).
			Delete(&models.OrderItem{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete order items")
		}

		if err := tx.Where("order_id = ?", orderID).
			Delete(&models.OrderLocation{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete order locations")
		}

		if err := tx.Delete(&models.Order{}, "id = ?", orderID).Error; err != nil {
			return errors.Wrap(err, "failed to delete order")
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "order delete transaction failed")
	}
	return nil
}
