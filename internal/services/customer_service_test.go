package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"example.com/encomendas/services/orders/internal/domain"
	"example.com/encomendas/services/orders/internal/models"
)

func TestCreateCustomerHashesPassword(t *testing.T) {
	customers := new(mockCustomerStore)

	var created *models.Customer
	customers.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.Customer)
		}).
		Return(nil)

	service := &CustomerService{customers: customers}

	customer, err := service.CreateCustomer(context.Background(), CreateCustomerInput{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		TaxID:    "123456789",
		Password: "s3cret",
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	require.Equal(t, models.StatusActive, created.Status)
	require.NotEqual(t, "s3cret", created.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret")))
	require.True(t, service.CheckPassword(customer, "s3cret"))
	require.False(t, service.CheckPassword(customer, "wrong"))
}

func TestUpdateCustomerKeepsHashWhenPasswordAbsent(t *testing.T) {
	customers := new(mockCustomerStore)

	hash, err := bcrypt.GenerateFromPassword([]byte("original"), bcrypt.DefaultCost)
	require.NoError(t, err)

	customer := &models.Customer{
		ID:           uuid.New(),
		Name:         "Maria Silva",
		PasswordHash: string(hash),
		Status:       models.StatusActive,
	}

	customers.On("GetByID", mock.Anything, customer.ID).Return(customer, nil)
	customers.On("Save", mock.Anything, customer).Return(nil)

	service := &CustomerService{customers: customers}

	name := "Maria Santos"
	updated, err := service.UpdateCustomer(context.Background(), customer.ID, UpdateCustomerInput{
		Name: &name,
	})

	require.NoError(t, err)
	require.Equal(t, "Maria Santos", updated.Name)
	require.Equal(t, string(hash), updated.PasswordHash)
}

func TestUpdateCustomerRehashesSuppliedPassword(t *testing.T) {
	customers := new(mockCustomerStore)

	hash, err := bcrypt.GenerateFromPassword([]byte("original"), bcrypt.DefaultCost)
	require.NoError(t, err)

	customer := &models.Customer{ID: uuid.New(), PasswordHash: string(hash)}

	customers.On("GetByID", mock.Anything, customer.ID).Return(customer, nil)
	customers.On("Save", mock.Anything, customer).Return(nil)

	service := &CustomerService{customers: customers}

	password := "changed"
	updated, err := service.UpdateCustomer(context.Background(), customer.ID, UpdateCustomerInput{
		Password: &password,
	})

	require.NoError(t, err)
	require.NotEqual(t, string(hash), updated.PasswordHash)
	require.True(t, service.CheckPassword(updated, "changed"))
}

func TestDeleteCustomerDeactivates(t *testing.T) {
	customers := new(mockCustomerStore)

	customer := &models.Customer{ID: uuid.New(), Status: models.StatusActive}
	customers.On("GetByID", mock.Anything, customer.ID).Return(customer, nil)
	customers.On("Save", mock.Anything, customer).Return(nil)

	service := &CustomerService{customers: customers}

	require.NoError(t, service.DeleteCustomer(context.Background(), customer.ID))
	require.Equal(t, models.StatusInactive, customer.Status)
}

func TestDeleteCustomerIsIdempotent(t *testing.T) {
	customers := new(mockCustomerStore)

	customer := &models.Customer{ID: uuid.New(), Status: models.StatusInactive}
	customers.On("GetByID", mock.Anything, customer.ID).Return(customer, nil)
	customers.On("Save", mock.Anything, customer).Return(nil)

	service := &CustomerService{customers: customers}

	require.NoError(t, service.DeleteCustomer(context.Background(), customer.ID))
	require.Equal(t, models.StatusInactive, customer.Status)
}

func TestDeleteCustomerUnknown(t *testing.T) {
	customers := new(mockCustomerStore)

	customerID := uuid.New()
	customers.On("GetByID", mock.Anything, customerID).
		Return(nil, domain.NotFoundf("customer %s not found", customerID))

	service := &CustomerService{customers: customers}

	err := service.DeleteCustomer(context.Background(), customerID)
	require.True(t, domain.IsNotFound(err))
	customers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestGetCustomerReturnsInactive(t *testing.T) {
	customers := new(mockCustomerStore)

	customer := &models.Customer{ID: uuid.New(), Status: models.StatusInactive}
	customers.On("GetByID", mock.Anything, customer.ID).Return(customer, nil)

	service := &CustomerService{customers: customers}

	got, err := service.GetCustomer(context.Background(), customer.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusInactive, got.Status)
}

func TestLookupByTaxIDMiss(t *testing.T) {
	customers := new(mockCustomerStore)
	customers.On("GetByTaxID", mock.Anything, "999999999").Return(nil, nil)

	service := &CustomerService{customers: customers}

	got, err := service.LookupByTaxID(context.Background(), "999999999")
	require.NoError(t, err)
	require.Nil(t, got)
}
