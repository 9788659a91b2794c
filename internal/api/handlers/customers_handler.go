package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/encomendas/services/orders/internal/services"
)

// CustomersHandler handles customer-related HTTP requests
type CustomersHandler struct {
	customerService *services.CustomerService
	orderService    *services.OrderService
}

// NewCustomersHandler creates a new customers handler
func NewCustomersHandler(customerService *services.CustomerService, orderService *services.OrderService) *CustomersHandler {
	return &CustomersHandler{
		customerService: customerService,
		orderService:    orderService,
	}
}

// CreateCustomerRequest represents an incoming customer registration request
type CreateCustomerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	TaxID    string `json:"tax_id" binding:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password" binding:"required,min=6"`
}

// UpdateCustomerRequest represents a partial customer mutation
type UpdateCustomerRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	TaxID    *string `json:"tax_id"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Password *string `json:"password"`
}

// HandleCreateCustomer registers a customer
func (h *CustomersHandler) HandleCreateCustomer(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.customerService.LookupByTaxID(c.Request.Context(), req.TaxID)
	if err != nil {
		respondError(c, err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "customer with tax id " + req.TaxID + " already exists"})
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), services.CreateCustomerInput{
		Name:     req.Name,
		Email:    req.Email,
		TaxID:    req.TaxID,
		Phone:    req.Phone,
		Address:  req.Address,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// HandleGetCustomer returns one customer, INACTIVE included
func (h *CustomersHandler) HandleGetCustomer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// HandleListCustomers returns customers, optionally filtered by status
func (h *CustomersHandler) HandleListCustomers(c *gin.Context) {
	offset, limit := pagination(c)

	customers, err := h.customerService.ListCustomers(c.Request.Context(), c.Query("status"), offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, customers)
}

// HandleUpdateCustomer applies a partial mutation to a customer
func (h *CustomersHandler) HandleUpdateCustomer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), id, services.UpdateCustomerInput{
		Name:     req.Name,
		Email:    req.Email,
		TaxID:    req.TaxID,
		Phone:    req.Phone,
		Address:  req.Address,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// HandleDeleteCustomer deactivates a customer. The record stays retrievable.
func (h *CustomersHandler) HandleDeleteCustomer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// HandleListCustomerOrders returns every order of a customer
func (h *CustomersHandler) HandleListCustomerOrders(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	orders, err := h.orderService.ListOrdersForCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// RegisterRoutes registers the handler's routes
func (h *CustomersHandler) RegisterRoutes(router *gin.Engine) {
	customers := router.Group("/customers")
	customers.POST("", h.HandleCreateCustomer)
	customers.GET("", h.HandleListCustomers)
	customers.GET("/:id", h.HandleGetCustomer)
	customers.PUT("/:id", h.HandleUpdateCustomer)
	customers.DELETE("/:id", h.HandleDeleteCustomer)
	customers.GET("/:id/orders", h.HandleListCustomerOrders)
}
