package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Entity statuses. Customers and products are soft-deleted by flipping the
// status to INACTIVE; the row itself is never removed, so lookups by ID keep
// working and historical references stay intact.
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// Order lifecycle statuses. Any status is reachable from any status; there is
// no transition graph.
const (
	OrderStatusPending       = "PENDING"
	OrderStatusInPreparation = "IN_PREPARATION"
	OrderStatusReady         = "READY"
	OrderStatusDelivered     = "DELIVERED"
	OrderStatusCancelled     = "CANCELLED"
)

// OrderStatuses lists every valid order status.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusInPreparation,
	OrderStatusReady,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Customer represents a registered customer. Orders reference customers by ID
// only; deleting a customer never cascades.
type Customer struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"not null;index" json:"email"`
	TaxID        string    `gorm:"column:tax_id;not null;uniqueIndex" json:"tax_id"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Status       string    `gorm:"not null;default:ACTIVE;index" json:"status"`
	RegisteredAt time.Time `gorm:"autoCreateTime" json:"registered_at"`
	Orders       []Order   `gorm:"foreignKey:CustomerID" json:"-"`
}

// Product represents a catalog product. The price is captured into order
// totals at association time; later price changes never touch existing orders.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null;index" json:"name"`
	Price       float64   `gorm:"not null" json:"price"`
	Description *string   `json:"description"`
	Status      string    `gorm:"not null;default:ACTIVE;index" json:"status"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Order is the aggregate root: line items and location events belong to it
// and are removed with it. TotalValue always equals the sum of
// quantity x price-at-capture over the current items.
type Order struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"customer_id"`
	Description       *string        `json:"description"`
	TotalValue        float64        `gorm:"not null" json:"total_value"`
	Status            string         `gorm:"not null;default:PENDING;index" json:"status"`
	CurrentLocationID *uuid.UUID     `gorm:"type:uuid" json:"current_location_id"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	Items             []OrderItem    `gorm:"foreignKey:OrderID" json:"items"`
	CurrentLocation   *OrderLocation `gorm:"foreignKey:CurrentLocationID" json:"current_location"`
}

// OrderItem associates a product and quantity with an order. Composite key.
// There is no captured price column; the order total carries the captured value.
type OrderItem struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
}

// OrderLocation is one entry in an order's append-only location history.
type OrderLocation struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	Location   string    `gorm:"not null" json:"location"`
	RecordedAt time.Time `gorm:"autoCreateTime" json:"recorded_at"`
}

// SetupModels runs the schema migrations.
func SetupModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&Customer{},
		&Product{},
		&Order{},
		&OrderItem{},
		&OrderLocation{},
	)
	if err != nil {
		return errors.Wrap(err, "failed to run auto migrations")
	}

	return nil
}
