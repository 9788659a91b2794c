package handlers

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"example.com/encomendas/services/orders/internal/models"
	"example.com/encomendas/services/orders/internal/services"
	"example.com/encomendas/services/orders/internal/tracing"
)

const (
	defaultOffset = 0
	defaultLimit  = 100
)

// OrdersHandler handles order-related HTTP requests
type OrdersHandler struct {
	orderService *services.OrderService
	tracer       tracing.Tracer
}

// NewOrdersHandler creates a new orders handler
func NewOrdersHandler(orderService *services.OrderService, tracer tracing.Tracer) *OrdersHandler {
	return &OrdersHandler{
		orderService: orderService,
		tracer:       tracer,
	}
}

// CreateOrderRequest represents an incoming order creation request. Line
// items arrive as a JSON object mapping product id to quantity.
type CreateOrderRequest struct {
	CustomerID  uuid.UUID      `json:"customer_id" binding:"required"`
	Description *string        `json:"description"`
	Items       map[string]int `json:"items" binding:"required"`
	Location    string         `json:"location" binding:"required"`
}

// UpdateOrderRequest represents a partial order mutation. Absent fields are
// left unchanged; a present items object replaces the whole line-item set.
type UpdateOrderRequest struct {
	CustomerID  *uuid.UUID     `json:"customer_id"`
	Description *string        `json:"description"`
	Items       map[string]int `json:"items"`
	Location    *string        `json:"location"`
}

// UpdateOrderStatusRequest carries a status replacement.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AppendLocationRequest carries a new location event.
type AppendLocationRequest struct {
	Location string `json:"location" binding:"required"`
}

// lineItems converts the wire-level product-to-quantity object into an
// ordered slice, sorted by product id so equal payloads always produce the
// same item order.
func lineItems(raw map[string]int) ([]services.LineItemInput, error) {
	items := make([]services.LineItemInput, 0, len(raw))
	for id, qty := range raw {
		productID, err := uuid.Parse(id)
		if err != nil {
			return nil, err
		}
		items = append(items, services.LineItemInput{ProductID: productID, Quantity: qty})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ProductID.String() < items[j].ProductID.String()
	})
	return items, nil
}

func pagination(c *gin.Context) (int, int) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", ""))
	if err != nil || offset < 0 {
		offset = defaultOffset
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", ""))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	return offset, limit
}

func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// HandleCreateOrder creates an order aggregate
func (h *OrdersHandler) HandleCreateOrder(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-create-order")
	defer h.tracer.EndTransaction(txn)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error().Err(err).Msg("invalid order creation request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := lineItems(req.Items)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id in items"})
		return
	}

	h.tracer.AddAttribute(txn, "customer_id", req.CustomerID.String())
	h.tracer.AddAttribute(txn, "item_count", len(items))

	order, err := h.orderService.CreateOrder(c.Request.Context(), services.CreateOrderInput{
		CustomerID:      req.CustomerID,
		Description:     req.Description,
		Items:           items,
		InitialLocation: req.Location,
	})
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// HandleGetOrder returns one order with items and current location
func (h *OrdersHandler) HandleGetOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// HandleListOrders returns orders, optionally filtered by status
func (h *OrdersHandler) HandleListOrders(c *gin.Context) {
	offset, limit := pagination(c)

	orders, err := h.orderService.ListOrders(c.Request.Context(), c.Query("status"), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// HandleUpdateOrder applies a partial mutation to an order
func (h *OrdersHandler) HandleUpdateOrder(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-update-order")
	defer h.tracer.EndTransaction(txn)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := services.UpdateOrderInput{
		CustomerID:  req.CustomerID,
		Description: req.Description,
		NewLocation: req.Location,
	}
	if req.Items != nil {
		items, err := lineItems(req.Items)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id in items"})
			return
		}
		in.Items = items
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), id, in)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// HandleUpdateOrderStatus replaces an order's status
func (h *OrdersHandler) HandleUpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidOrderStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown order status " + req.Status})
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// HandleAppendLocation appends a location event to an order's history
func (h *OrdersHandler) HandleAppendLocation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req AppendLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orderService.AppendLocation(c.Request.Context(), id, req.Location)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// HandleListLocations returns an order's location history in append order
func (h *OrdersHandler) HandleListLocations(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	locations, err := h.orderService.ListLocations(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, locations)
}

// HandleListItems returns an order's line items
func (h *OrdersHandler) HandleListItems(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	items, err := h.orderService.ListItems(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// HandleDeleteOrder removes an order with its items and location history
func (h *OrdersHandler) HandleDeleteOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// HandleSearchOrders runs a free-text search over indexed orders
func (h *OrdersHandler) HandleSearchOrders(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
		return
	}

	results, err := h.orderService.SearchOrders(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// RegisterRoutes registers the handler's routes
func (h *OrdersHandler) RegisterRoutes(router *gin.Engine) {
	orders := router.Group("/orders")
	orders.POST("", h.HandleCreateOrder)
	orders.GET("", h.HandleListOrders)
	orders.GET("/search", h.HandleSearchOrders)
	orders.GET("/:id", h.HandleGetOrder)
	orders.PUT("/:id", h.HandleUpdateOrder)
	orders.PUT("/:id/status", h.HandleUpdateOrderStatus)
	orders.POST("/:id/locations", h.HandleAppendLocation)
	orders.GET("/:id/locations", h.HandleListLocations)
	orders.GET("/:id/items", h.HandleListItems)
	orders.DELETE("/:id", h.HandleDeleteOrder)
}
