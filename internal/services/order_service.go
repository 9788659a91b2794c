package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"example.com/encomendas/services/orders/internal/cache"
	"example.com/encomendas/services/orders/internal/messaging"
	"example.com/encomendas/services/orders/internal/metrics"
	"example.com/encomendas/services/orders/internal/models"
	"example.com/encomendas/services/orders/internal/repositories"
	"example.com/encomendas/services/orders/internal/search"
	"example.com/encomendas/services/orders/internal/tracing"
)

// ErrSearchDisabled is returned when a search request arrives while the
// Elasticsearch integration is not configured.
var ErrSearchDisabled = errors.New("order search is not enabled")

const orderCacheTTL = 5 * time.Minute

// LineItemInput is one (product, quantity) pair of an order mutation.
// Ordered and typed; the wire-level product-ID-to-quantity object is
// converted before it reaches the engine.
type LineItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateOrderInput carries everything needed to create an order aggregate.
type CreateOrderInput struct {
	CustomerID      uuid.UUID
	Description     *string
	Items           []LineItemInput
	InitialLocation string
}

// UpdateOrderInput carries a partial order mutation. Nil fields are left
// unchanged; a non-nil empty description is a valid replacement. A non-nil
// Items slice replaces the whole line-item set.
type UpdateOrderInput struct {
	CustomerID  *uuid.UUID
	Description *string
	Items       []LineItemInput
	NewLocation *string
}

// OrderService is the order aggregate engine. It keeps an order, its line
// items, its location history and its derived total mutually consistent.
// Every multi-step mutation is transactional in the store layer.
type OrderService struct {
	orders    orderStore
	customers customerStore
	products  productStore
	cache     *cache.RedisCache
	search    *search.ElasticClient
	publisher messaging.Publisher
	metrics   *metrics.Metrics
	tracer    tracing.Tracer
}

// NewOrderService creates a new order service. The cache, search and
// publisher integrations may be nil; the engine then skips them.
func NewOrderService(
	db *gorm.DB,
	redisCache *cache.RedisCache,
	elasticClient *search.ElasticClient,
	publisher messaging.Publisher,
	metricsCollector *metrics.Metrics,
	tracer tracing.Tracer,
) *OrderService {
	return &OrderService{
		orders:    repositories.NewOrderRepository(db),
		customers: repositories.NewCustomerRepository(db),
		products:  repositories.NewProductRepository(db),
		cache:     redisCache,
		search:    elasticClient,
		publisher: publisher,
		metrics:   metricsCollector,
		tracer:    tracer,
	}
}

// CreateOrder creates an order with its line items and initial location
// event. Every referenced product must exist and still be ACTIVE; the total
// captures the product prices at this moment and is never recomputed when
// prices change later.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	txn := s.tracer.StartTransaction("create-order")
	defer s.tracer.EndTransaction(txn)

	customer, err := s.customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	var total float64
	items := make([]models.OrderItem, 0, len(in.Items))
	for _, item := range in.Items {
		product, err := s.products.GetActiveByID(ctx, item.ProductID)
		if err != nil {
			s.tracer.RecordError(txn, err)
			return nil, err
		}

		total += product.Price * float64(item.Quantity)
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order := &models.Order{
		ID:          uuid.New(),
		CustomerID:  customer.ID,
		Description: in.Description,
		TotalValue:  total,
		Status:      models.OrderStatusPending,
	}
	location := &models.OrderLocation{
		ID:         uuid.New(),
		Location:   in.InitialLocation,
		RecordedAt: time.Now(),
	}

	span := s.tracer.StartSpan("persist-order-aggregate", txn)
	err = s.orders.CreateAggregate(ctx, order, items, location)
	span.End()
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	created, err := s.orders.GetByID(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("order_id", created.ID.String()).
		Str("customer_id", customer.ID.String()).
		Float64("total_value", created.TotalValue).
		Int("items", len(created.Items)).
		Msg("order created")

	s.count("orders_created")
	s.indexOrder(ctx, created)
	s.publishEvent(ctx, messaging.OrderEvent{
		EventType:  messaging.EventOrderCreated,
		OrderID:    created.ID,
		CustomerID: created.CustomerID,
		Status:     created.Status,
		TotalValue: created.TotalValue,
		OccurredAt: time.Now().UTC(),
	})

	return created, nil
}

// GetOrder returns an order with its items and current location, going
// through the read cache when one is configured.
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.cache != nil {
		var cached models.Order
		if err := s.cache.Get(ctx, cache.OrderCacheKey(id), &cached); err == nil {
			return &cached, nil
		}
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.OrderCacheKey(id), order, orderCacheTTL); err != nil {
			log.Warn().Err(err).Str("order_id", id.String()).Msg("failed to cache order")
		}
	}

	return order, nil
}

// ListOrders returns orders, optionally filtered by status.
func (s *OrderService) ListOrders(ctx context.Context, status string, offset, limit int) ([]models.Order, error) {
	return s.orders.List(ctx, status, offset, limit)
}

// UpdateOrder applies a partial mutation to an order. A supplied line-item
// set replaces the existing one wholesale and the total is recomputed from
// scratch; a supplied location is appended to the history, never rewritten.
// Unlike creation, the replacement path accepts products that are no longer
// ACTIVE, matching the system this one replaces.
func (s *OrderService) UpdateOrder(ctx context.Context, orderID uuid.UUID, in UpdateOrderInput) (*models.Order, error) {
	txn := s.tracer.StartTransaction("update-order")
	defer s.tracer.EndTransaction(txn)

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	if in.CustomerID != nil {
		customer, err := s.customers.GetByID(ctx, *in.CustomerID)
		if err != nil {
			s.tracer.RecordError(txn, err)
			return nil, err
		}
		order.CustomerID = customer.ID
	}

	if in.Description != nil {
		order.Description = in.Description
	}

	replaceItems := in.Items != nil
	var items []models.OrderItem
	if replaceItems {
		var total float64
		items = make([]models.OrderItem, 0, len(in.Items))
		for _, item := range in.Items {
			product, err := s.products.GetByID(ctx, item.ProductID)
			if err != nil {
				s.tracer.RecordError(txn, err)
				return nil, err
			}

			total += product.Price * float64(item.Quantity)
			items = append(items, models.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}
		order.TotalValue = total
	}

	var location *models.OrderLocation
	if in.NewLocation != nil {
		location = &models.OrderLocation{
			ID:         uuid.New(),
			OrderID:    order.ID,
			Location:   *in.NewLocation,
			RecordedAt: time.Now(),
		}
	}

	span := s.tracer.StartSpan("persist-order-aggregate", txn)
	err = s.orders.SaveAggregate(ctx, order, items, replaceItems, location)
	span.End()
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	updated, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("order_id", updated.ID.String()).
		Bool("items_replaced", replaceItems).
		Float64("total_value", updated.TotalValue).
		Msg("order updated")

	s.count("orders_updated")
	s.invalidate(ctx, orderID)
	s.indexOrder(ctx, updated)

	return updated, nil
}

// UpdateOrderStatus replaces an order's status. Any status is reachable from
// any status.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order.Status = status
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	log.Info().
		Str("order_id", order.ID.String()).
		Str("status", status).
		Msg("order status updated")

	s.count("order_status_changes")
	s.invalidate(ctx, orderID)
	s.indexOrder(ctx, order)
	s.publishEvent(ctx, messaging.OrderEvent{
		EventType:  messaging.EventOrderStatusChanged,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Status:     status,
		TotalValue: order.TotalValue,
		OccurredAt: time.Now().UTC(),
	})

	return order, nil
}

// AppendLocation appends a location event to an order's history and points
// the order at it. Prior events stay retrievable in append order.
func (s *OrderService) AppendLocation(ctx context.Context, orderID uuid.UUID, locationText string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	location := &models.OrderLocation{
		ID:         uuid.New(),
		OrderID:    order.ID,
		Location:   locationText,
		RecordedAt: time.Now(),
	}

	if err := s.orders.AppendLocation(ctx, location); err != nil {
		return nil, err
	}

	log.Info().
		Str("order_id", order.ID.String()).
		Str("location", locationText).
		Msg("order location appended")

	s.count("locations_appended")
	s.invalidate(ctx, orderID)

	return s.orders.GetByID(ctx, orderID)
}

// DeleteOrder physically removes an order together with its line items and
// location history.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := s.orders.DeleteAggregate(ctx, orderID); err != nil {
		return err
	}

	log.Info().Str("order_id", orderID.String()).Msg("order deleted")

	s.count("orders_deleted")
	s.invalidate(ctx, orderID)
	s.deindexOrder(ctx, orderID)
	s.publishEvent(ctx, messaging.OrderEvent{
		EventType:  messaging.EventOrderDeleted,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		OccurredAt: time.Now().UTC(),
	})

	return nil
}

// ListLocations returns an order's location history in append order. The
// order itself must exist; an existing order with no history yields an empty
// slice, not an error.
func (s *OrderService) ListLocations(ctx context.Context, orderID uuid.UUID) ([]models.OrderLocation, error) {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.orders.ListLocations(ctx, orderID)
}

// ListItems returns an order's line items. Same parent-first semantics as
// ListLocations.
func (s *OrderService) ListItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.orders.ListItems(ctx, orderID)
}

// ListOrdersForCustomer returns every order of an existing customer, empty
// when the customer has none.
func (s *OrderService) ListOrdersForCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.orders.ListByCustomer(ctx, customerID)
}

// SearchOrders runs a free-text search over the indexed order documents.
func (s *OrderService) SearchOrders(ctx context.Context, query string) ([]map[string]interface{}, error) {
	if s.search == nil {
		return nil, ErrSearchDisabled
	}
	return s.search.SearchOrders(ctx, query)
}

// ReconcileLocationPointers repairs orders whose current-location pointer no
// longer references the newest event of their history. Runs from the
// background worker.
func (s *OrderService) ReconcileLocationPointers(ctx context.Context) error {
	txn := s.tracer.StartTransaction("reconcile-location-pointers")
	defer s.tracer.EndTransaction(txn)

	const pageSize = 100
	repaired := 0

	for offset := 0; ; offset += pageSize {
		orders, err := s.orders.List(ctx, "", offset, pageSize)
		if err != nil {
			s.tracer.RecordError(txn, err)
			return errors.Wrap(err, "failed to list orders for reconciliation")
		}
		if len(orders) == 0 {
			break
		}

		for _, order := range orders {
			latest, err := s.orders.GetLatestLocation(ctx, order.ID)
			if err != nil {
				s.tracer.RecordError(txn, err)
				log.Error().Err(err).
					Str("order_id", order.ID.String()).
					Msg("failed to load latest location during reconciliation")
				continue
			}
			if latest == nil {
				continue
			}
			if order.CurrentLocationID != nil && *order.CurrentLocationID == latest.ID {
				continue
			}

			if err := s.orders.SetCurrentLocation(ctx, order.ID, latest.ID); err != nil {
				s.tracer.RecordError(txn, err)
				log.Error().Err(err).
					Str("order_id", order.ID.String()).
					Msg("failed to repair current location during reconciliation")
				continue
			}

			s.invalidate(ctx, order.ID)
			repaired++
			log.Info().
				Str("order_id", order.ID.String()).
				Str("location_id", latest.ID.String()).
				Msg("repaired drifted current-location pointer")
		}

		if len(orders) < pageSize {
			break
		}
	}

	if repaired > 0 {
		s.countBy("location_pointers_repaired", int64(repaired))
	}

	return nil
}

func (s *OrderService) count(name string) {
	if s.metrics != nil {
		s.metrics.IncrementCounter(name)
	}
}

func (s *OrderService) countBy(name string, value int64) {
	if s.metrics != nil {
		s.metrics.IncrementCounterBy(name, value)
	}
}

func (s *OrderService) invalidate(ctx context.Context, orderID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.OrderCacheKey(orderID)); err != nil {
		log.Warn().Err(err).Str("order_id", orderID.String()).Msg("failed to invalidate cached order")
	}
}

// indexOrder pushes the order view into Elasticsearch. Indexing never fails
// the request; problems are logged and the document catches up on the next
// mutation.
func (s *OrderService) indexOrder(ctx context.Context, order *models.Order) {
	if s.search == nil {
		return
	}

	customer, err := s.customers.GetByID(ctx, order.CustomerID)
	if err != nil {
		log.Warn().Err(err).Str("order_id", order.ID.String()).Msg("failed to load customer for indexing")
		return
	}

	if err := s.search.IndexOrder(ctx, order, customer); err != nil {
		log.Warn().Err(err).Str("order_id", order.ID.String()).Msg("failed to index order")
	}
}

func (s *OrderService) deindexOrder(ctx context.Context, orderID uuid.UUID) {
	if s.search == nil {
		return
	}
	if err := s.search.DeleteOrder(ctx, orderID.String()); err != nil {
		log.Warn().Err(err).Str("order_id", orderID.String()).Msg("failed to remove order from index")
	}
}

func (s *OrderService) publishEvent(ctx context.Context, event messaging.OrderEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		log.Warn().Err(err).
			Str("event_type", event.EventType).
			Str("order_id", event.OrderID.String()).
			Msg("failed to publish order event")
	}
}
