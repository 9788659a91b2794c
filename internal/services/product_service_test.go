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

func TestCreateProduct(t *testing.T) {
	products := new(mockProductStore)

	products.On("GetByName", mock.Anything, "Widget").Return(nil, nil)

	var created *models.Product
	products.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.Product)
		}).
		Return(nil)

	service := &ProductService{products: products}

	product, err := service.CreateProduct(context.Background(), CreateProductInput{
		Name:  "Widget",
		Price: 5.00,
	})

	require.NoError(t, err)
	require.Equal(t, created, product)
	require.Equal(t, models.StatusActive, product.Status)
	require.Equal(t, 5.00, product.Price)
}

func TestCreateProductConflictsWithActiveNamesake(t *testing.T) {
	products := new(mockProductStore)

	existing := &models.Product{ID: uuid.New(), Name: "Widget", Status: models.StatusActive}
	products.On("GetByName", mock.Anything, "Widget").Return(existing, nil)

	service := &ProductService{products: products}

	_, err := service.CreateProduct(context.Background(), CreateProductInput{
		Name:  "Widget",
		Price: 5.00,
	})

	require.Error(t, err)
	require.True(t, domain.IsConflict(err))
	products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProductAllowsInactiveNamesake(t *testing.T) {
	products := new(mockProductStore)

	existing := &models.Product{ID: uuid.New(), Name: "Widget", Status: models.StatusInactive}
	products.On("GetByName", mock.Anything, "Widget").Return(existing, nil)
	products.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := &ProductService{products: products}

	product, err := service.CreateProduct(context.Background(), CreateProductInput{
		Name:  "Widget",
		Price: 7.50,
	})

	require.NoError(t, err)
	require.NotEqual(t, existing.ID, product.ID)
}

func TestUpdateProductPartial(t *testing.T) {
	products := new(mockProductStore)

	product := &models.Product{ID: uuid.New(), Name: "Widget", Price: 5.00, Status: models.StatusActive}
	products.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	products.On("Save", mock.Anything, product).Return(nil)

	service := &ProductService{products: products}

	price := 6.25
	updated, err := service.UpdateProduct(context.Background(), product.ID, UpdateProductInput{
		Price: &price,
	})

	require.NoError(t, err)
	require.Equal(t, 6.25, updated.Price)
	require.Equal(t, "Widget", updated.Name)
}

func TestDeleteProductDeactivates(t *testing.T) {
	products := new(mockProductStore)

	product := &models.Product{ID: uuid.New(), Status: models.StatusActive}
	products.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	products.On("Save", mock.Anything, product).Return(nil)

	service := &ProductService{products: products}

	require.NoError(t, service.DeleteProduct(context.Background(), product.ID))
	require.Equal(t, models.StatusInactive, product.Status)

	// A second call is a no-op state-wise but still succeeds
	require.NoError(t, service.DeleteProduct(context.Background(), product.ID))
	require.Equal(t, models.StatusInactive, product.Status)
}

func TestDeleteProductUnknown(t *testing.T) {
	products := new(mockProductStore)

	productID := uuid.New()
	products.On("GetByID", mock.Anything, productID).
		Return(nil, domain.NotFoundf("product %s not found", productID))

	service := &ProductService{products: products}

	err := service.DeleteProduct(context.Background(), productID)
	require.True(t, domain.IsNotFound(err))
	products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestGetProductReturnsInactive(t *testing.T) {
	products := new(mockProductStore)

	product := &models.Product{ID: uuid.New(), Status: models.StatusInactive}
	products.On("GetByID", mock.Anything, product.ID).Return(product, nil)

	service := &ProductService{products: products}

	got, err := service.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusInactive, got.Status)
}
