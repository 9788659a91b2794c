package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"example.com/encomendas/services/orders/internal/domain"
	"example.com/encomendas/services/orders/internal/models"
)

func newOrderService(orders *mockOrderStore, customers *mockCustomerStore, products *mockProductStore) *OrderService {
	return &OrderService{
		orders:    orders,
		customers: customers,
		products:  products,
		tracer:    noTracer(),
	}
}

func TestCreateOrderComputesTotal(t *testing.T) {
	customers := new(mockCustomerStore)
	products := new(mockProductStore)
	orders := new(mockOrderStore)

	customer := &models.Customer{ID: uuid.New(), Status: models.StatusActive}
	product := &models.Product{ID: uuid.New(), Name: "P1", Price: 5.00, Status: models.StatusActive}

	customers.On("GetByID", mock.Anything, customer.ID).Return(customer, nil)
	products.On("GetActiveByID", mock.Anything, product.ID).Return(product, nil)

	var persisted *models.Order
	var persistedItems []models.OrderItem
	var persistedLocation *models.OrderLocation
	orders.On("CreateAggregate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			persisted = args.Get(1).(*models.Order)
			persistedItems = args.Get(2).([]models.OrderItem)
			persistedLocation = args.Get(3).(*models.OrderLocation)
		}).
		Return(nil)
	orders.On("GetByID", mock.Anything, mock.Anything).Return(&models.Order{}, nil)

	service := newOrderService(orders, customers, products)

	_, err := service.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:      customer.ID,
		Items:           []LineItemInput{{ProductID: product.ID, Quantity: 3}},
		InitialLocation: "Warehouse A",
	})

	require.NoError(t, err)
	require.NotNil(t, persisted)
	require.Equal(t, 15.00, persisted.TotalValue)
	require.Equal(t, models.OrderStatusPending, persisted.Status)
	require.Equal(t, customer.ID, persisted.CustomerID)
	require.Len(t, persistedItems, 1)
	require.Equal(t, product.ID, persistedItems[0].ProductID)
	require.Equal(t, 3, persistedItems[0].Quantity)
	require.Equal(t, "Warehouse A", persistedLocation.Location)

	orders.AssertExpectations(t)
}

func TestCreateOrderRejectsInactiveProduct(t *testing.T) {
	customers := new(mockCustomerStore)
	products := new(mockProductStore)
	orders := new(mockOrderStore)

	customer := &models.Customer{ID: uuid.New()}
	productID := uuid.New()

	customers.On("GetByID", mock.Anything, customer.ID).Return(customer, nil)
	products.On("GetActiveByID", mock.Anything, productID).
		Return(nil, domain.NotFoundf("product %s not found or no longer active", productID))

	service := newOrderService(orders, customers, products)

	_, err := service.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:      customer.ID,
		Items:           []LineItemInput{{ProductID: productID, Quantity: 1}},
		InitialLocation: "Warehouse A",
	})

	require.Error(t, err)
	require.True(t, domain.IsNotFound(err))
	orders.AssertNotCalled(t, "CreateAggregate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateOrderRejectsUnknownCustomer(t *testing.T) {
	customers := new(mockCustomerStore)
	products := new(mockProductStore)
	orders := new(mockOrderStore)

	customerID := uuid.New()
	customers.On("GetByID", mock.Anything, customerID).
		Return(nil, domain.NotFoundf("customer %s not found", customerID))

	service := newOrderService(orders, customers, products)

	_, err := service.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID:      customerID,
		Items:           []LineItemInput{{ProductID: uuid.New(), Quantity: 1}},
		InitialLocation: "Warehouse A",
	})

	require.True(t, domain.IsNotFound(err))
	products.AssertNotCalled(t, "GetActiveByID", mock.Anything, mock.Anything)
	orders.AssertNotCalled(t, "CreateAggregate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateOrderReplacesItemsAndRecomputesTotal(t *testing.T) {
	customers := new(mockCustomerStore)
	products := new(mockProductStore)
	orders := new(mockOrderStore)

	product := &models.Product{ID: uuid.New(), Price: 5.00, Status: models.StatusActive}
	order := &models.Order{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		TotalValue: 15.00,
		Status:     models.OrderStatusPending,
		Items:      []models.OrderItem{{ProductID: product.ID, Quantity: 3}},
	}

	orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	products.On("GetByID", mock.Anything, product.ID).Return(product, nil)

	var savedItems []models.OrderItem
	var savedReplace bool
	orders.On("SaveAggregate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedItems = args.Get(2).([]models.OrderItem)
			savedReplace = args.Get(3).(bool)
		}).
		Return(nil)

	service := newOrderService(orders, customers, products)

	updated, err := service.UpdateOrder(context.Background(), order.ID, UpdateOrderInput{
		Items: []LineItemInput{{ProductID: product.ID, Quantity: 1}},
	})

	require.NoError(t, err)
	require.Equal(t, 5.00, updated.TotalValue)
	require.True(t, savedReplace)
	require.Len(t, savedItems, 1)
	require.Equal(t, 1, savedItems[0].Quantity)
}

func TestUpdateOrderLeavesItemsWhenAbsent(t *testing.T) {
	customers := new(mockCustomerStore)
	products := new(mockProductStore)
	orders := new(mockOrderStore)

	order := &models.Order{ID: uuid.New(), CustomerID: uuid.New(), TotalValue: 15.00}
	orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)

	var savedReplace bool
	var savedOrder *models.Order
	orders.On("SaveAggregate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedOrder = args.Get(1).(*models.Order)
			savedReplace = args.Get(3).(bool)
		}).
		Return(nil)

	service := newOrderService(orders, customers, products)

	// Empty string is a valid description replacement; only a nil field is a no-op
	empty := ""
	_, err := service.UpdateOrder(context.Background(), order.ID, UpdateOrderInput{
		Description: &empty,
	})

	require.NoError(t, err)
	require.False(t, savedReplace)
	require.NotNil(t, savedOrder.Description)
	require.Equal(t, "", *savedOrder.Description)
	require.Equal(t, 15.00, savedOrder.TotalValue)
	products.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUpdateOrderAcceptsInactiveProduct(t *testing.T) {
	customers := new(mockCustomerStore)
	products := new(mockProductStore)
	orders := new(mockOrderStore)

	// The replacement path resolves products without the ACTIVE filter
	inactive := &models.Product{ID: uuid.New(), Price: 2.50, Status: models.StatusInactive}
	order := &models.Order{ID: uuid.New(), CustomerID: uuid.New()}

	orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	products.On("GetByID", mock.Anything, inactive.ID).Return(inactive, nil)
	orders.On("SaveAggregate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	service := newOrderService(orders, customers, products)

	updated, err := service.UpdateOrder(context.Background(), order.ID, UpdateOrderInput{
		Items: []LineItemInput{{ProductID: inactive.ID, Quantity: 2}},
	})

	require.NoError(t, err)
	require.Equal(t, 5.00, updated.TotalValue)
}

func TestUpdateOrderStatusAllowsAnyTransition(t *testing.T) {
	customers := new(mockCustomerStore)
	products := new(mockProductStore)
	orders := new(mockOrderStore)

	order := &models.Order{ID: uuid.New(), Status: models.OrderStatusDelivered}
	orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	orders.On("Save", mock.Anything, order).Return(nil)

	service := newOrderService(orders, customers, products)

	updated, err := service.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusPending)

	require.NoError(t, err)
	require.Equal(t, models.OrderStatusPending, updated.Status)
	orders.AssertExpectations(t)
}

func TestAppendLocationAddsEventForOrder(t *testing.T) {
	customers := new(mockCustomerStore)
	products := new(mockProductStore)
	orders := new(mockOrderStore)

	order := &models.Order{ID: uuid.New()}
	orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)

	var appended *models.OrderLocation
	orders.On("AppendLocation", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			appended = args.Get(1).(*models.OrderLocation)
		}).
		Return(nil)

	service := newOrderService(orders, customers, products)

	_, err := service.AppendLocation(context.Background(), order.ID, "Truck 1")

	require.NoError(t, err)
	require.NotNil(t, appended)
	require.Equal(t, order.ID, appended.OrderID)
	require.Equal(t, "Truck 1", appended.Location)
}

func TestAppendLocationUnknownOrder(t *testing.T) {
	customers := new(mockCustomerStore)
	products := new(mockProductStore)
	orders := new(mockOrderStore)

	orderID := uuid.New()
	orders.On("GetByID", mock.Anything, orderID).
		Return(nil, domain.NotFoundf("order %s not found", orderID))

	service := newOrderService(orders, customers, products)

	_, err := service.AppendLocation(context.Background(), orderID, "Truck 1")

	require.True(t, domain.IsNotFound(err))
	orders.AssertNotCalled(t, "AppendLocation", mock.Anything, mock.Anything)
}

func TestDeleteOrderCascades(t *testing.T) {
	customers := new(mockCustomerStore)
	products := new(mockProductStore)
	orders := new(mockOrderStore)

	order := &models.Order{ID: uuid.New(), CustomerID: uuid.New()}
	orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	orders.On("DeleteAggregate", mock.Anything, order.ID).Return(nil)

	service := newOrderService(orders, customers, products)

	require.NoError(t, service.DeleteOrder(context.Background(), order.ID))
	orders.AssertExpectations(t)
}

func TestDeleteOrderUnknown(t *testing.T) {
	customers := new(mockCustomerStore)
	products := new(mockProductStore)
	orders := new(mockOrderStore)

	orderID := uuid.New()
	orders.On("GetByID", mock.Anything, orderID).
		Return(nil, domain.NotFoundf("order %s not found", orderID))

	service := newOrderService(orders, customers, products)

	err := service.DeleteOrder(context.Background(), orderID)
	require.True(t, domain.IsNotFound(err))
	orders.AssertNotCalled(t, "DeleteAggregate", mock.Anything, mock.Anything)
}

func TestListLocationsRequiresExistingOrder(t *testing.T) {
	customers := new(mockCustomerStore)
	products := new(mockProductStore)
	orders := new(mockOrderStore)

	orderID := uuid.New()
	orders.On("GetByID", mock.Anything, orderID).
		Return(nil, domain.NotFoundf("order %s not found", orderID))

	service := newOrderService(orders, customers, products)

	_, err := service.ListLocations(context.Background(), orderID)
	require.True(t, domain.IsNotFound(err))
}

func TestListLocationsEmptyHistoryIsNotAnError(t *testing.T) {
	customers := new(mockCustomerStore)
	products := new(mockProductStore)
	orders := new(mockOrderStore)

	order := &models.Order{ID: uuid.New()}
	orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	orders.On("ListLocations", mock.Anything, order.ID).Return([]models.OrderLocation{}, nil)

	service := newOrderService(orders, customers, products)

	locations, err := service.ListLocations(context.Background(), order.ID)
	require.NoError(t, err)
	require.Empty(t, locations)
}

func TestListOrdersForCustomerRequiresExistingCustomer(t *testing.T) {
	customers := new(mockCustomerStore)
	products := new(mockProductStore)
	orders := new(mockOrderStore)

	customerID := uuid.New()
	customers.On("GetByID", mock.Anything, customerID).
		Return(nil, domain.NotFoundf("customer %s not found", customerID))

	service := newOrderService(orders, customers, products)

	_, err := service.ListOrdersForCustomer(context.Background(), customerID)
	require.True(t, domain.IsNotFound(err))
	orders.AssertNotCalled(t, "ListByCustomer", mock.Anything, mock.Anything)
}

func TestReconcileLocationPointersRepairsDrift(t *testing.T) {
	customers := new(mockCustomerStore)
	products := new(mockProductStore)
	orders := new(mockOrderStore)

	stale := uuid.New()
	latest := &models.OrderLocation{ID: uuid.New()}
	order := models.Order{ID: uuid.New(), CurrentLocationID: &stale}

	orders.On("List", mock.Anything, "", 0, 100).Return([]models.Order{order}, nil)
	orders.On("GetLatestLocation", mock.Anything, order.ID).Return(latest, nil)
	orders.On("SetCurrentLocation", mock.Anything, order.ID, latest.ID).Return(nil)

	service := newOrderService(orders, customers, products)

	require.NoError(t, service.ReconcileLocationPointers(context.Background()))
	orders.AssertExpectations(t)
}

func TestReconcileLocationPointersSkipsConsistentOrders(t *testing.T) {
	customers := new(mockCustomerStore)
	products := new(mockProductStore)
	orders := new(mockOrderStore)

	latest := &models.OrderLocation{ID: uuid.New()}
	order := models.Order{ID: uuid.New(), CurrentLocationID: &latest.ID}

	orders.On("List", mock.Anything, "", 0, 100).Return([]models.Order{order}, nil)
	orders.On("GetLatestLocation", mock.Anything, order.ID).Return(latest, nil)

	service := newOrderService(orders, customers, products)

	require.NoError(t, service.ReconcileLocationPointers(context.Background()))
	orders.AssertNotCalled(t, "SetCurrentLocation", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchOrdersDisabled(t *testing.T) {
	service := newOrderService(new(mockOrderStore), new(mockCustomerStore), new(mockProductStore))

	_, err := service.SearchOrders(context.Background(), "warehouse")
	require.ErrorIs(t, err, ErrSearchDisabled)
}
