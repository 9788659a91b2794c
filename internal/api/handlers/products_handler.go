package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"example.com/encomendas/services/orders/internal/services"
)

const defaultMaxPrice = 1000000

// ProductsHandler handles catalog-related HTTP requests
type ProductsHandler struct {
	productService *services.ProductService
}

// NewProductsHandler creates a new products handler
func NewProductsHandler(productService *services.ProductService) *ProductsHandler {
	return &ProductsHandler{productService: productService}
}

// CreateProductRequest represents an incoming product registration request
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Description *string `json:"description"`
}

// UpdateProductRequest represents a partial product mutation
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
}

// HandleCreateProduct registers a product
func (h *ProductsHandler) HandleCreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), services.CreateProductInput{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// HandleGetProduct returns one product, INACTIVE included
func (h *ProductsHandler) HandleGetProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// HandleListProducts returns products within a price range
func (h *ProductsHandler) HandleListProducts(c *gin.Context) {
	offset, limit := pagination(c)

	minPrice, err := strconv.ParseFloat(c.DefaultQuery("min_price", "0"), 64)
	if err != nil || minPrice < 0 {
		minPrice = 0
	}
	maxPrice, err := strconv.ParseFloat(c.DefaultQuery("max_price", ""), 64)
	if err != nil || maxPrice <= 0 {
		maxPrice = defaultMaxPrice
	}

	products, err := h.productService.ListProducts(c.Request.Context(), minPrice, maxPrice, offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// HandleUpdateProduct applies a partial mutation to a product
func (h *ProductsHandler) HandleUpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, services.UpdateProductInput{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// HandleDeleteProduct deactivates a product. Existing orders keep their
// captured totals.
func (h *ProductsHandler) HandleDeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers the handler's routes
func (h *ProductsHandler) RegisterRoutes(router *gin.Engine) {
	products := router.Group("/products")
	products.POST("", h.HandleCreateProduct)
	products.GET("", h.HandleListProducts)
	products.GET("/:id", h.HandleGetProduct)
	products.PUT("/:id", h.HandleUpdateProduct)
	products.DELETE("/:id", h.HandleDeleteProduct)
}
