package mutation_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/service/mutation"
	"github.com/vladislavdragonenkov/crm/internal/storage/memory"
)

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: false, DisableTimestamp: true})
	logger.SetLevel(logrus.DebugLevel)
	return logger.WithField("component", "test")
}

type testEnv struct {
	customers domain.CustomerRepository
	products  domain.ProductRepository
	orders    domain.OrderRepository
	service   *mutation.Service
}

func newTestEnv() *testEnv {
	customers := memory.NewCustomerRepository()
	products := memory.NewProductRepository()
	orders := memory.NewOrderRepository()
	service := mutation.NewService(customers, products, orders, loggerForTests(), nil, nil)
	return &testEnv{customers: customers, products: products, orders: orders, service: service}
}

// capturingPublisher запоминает опубликованные события.
type capturingPublisher struct {
	mu     sync.Mutex
	topics []string
	keys   []string
}

func (p *capturingPublisher) PublishEvent(topic string, key string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.keys = append(p.keys, key)
	return nil
}

func TestCreateCustomer_Success(t *testing.T) {
	env := newTestEnv()

	result, err := env.service.CreateCustomer(context.Background(), mutation.CustomerInput{
		Name:  "Alice Wonderland",
		Email: "alice@example.com",
		Phone: "+1234567890",
	})
	require.NoError(t, err)
	require.Equal(t, "Customer created successfully", result.Message)
	require.NotEmpty(t, result.Customer.ID)
	require.Equal(t, "alice@example.com", result.Customer.Email)

	// Get сразу после create возвращает ту же сущность.
	stored, err := env.customers.Get(result.Customer.ID)
	require.NoError(t, err)
	require.Equal(t, result.Customer, stored)
}

func TestCreateCustomer_PhoneOptional(t *testing.T) {
	env := newTestEnv()

	result, err := env.service.CreateCustomer(context.Background(), mutation.CustomerInput{
		Name:  "Charlie Chaplin",
		Email: "charlie@example.com",
	})
	require.NoError(t, err)
	require.Empty(t, result.Customer.Phone)
}

func TestCreateCustomer_InvalidPhone(t *testing.T) {
	env := newTestEnv()

	_, err := env.service.CreateCustomer(context.Background(), mutation.CustomerInput{
		Name:  "Diana Prince",
		Email: "diana@example.com",
		Phone: "(987) 654-3210",
	})
	require.ErrorIs(t, err, domain.ErrInvalidPhoneFormat)

	exists, err := env.customers.ExistsByEmail("diana@example.com")
	require.NoError(t, err)
	require.False(t, exists, "failed create must persist nothing")
}

func TestCreateCustomer_DuplicateEmail(t *testing.T) {
	env := newTestEnv()

	first, err := env.service.CreateCustomer(context.Background(), mutation.CustomerInput{
		Name:  "Alice Wonderland",
		Email: "alice@example.com",
	})
	require.NoError(t, err)

	_, err = env.service.CreateCustomer(context.Background(), mutation.CustomerInput{
		Name:  "Another Alice",
		Email: "alice@example.com",
	})
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)

	// Первый клиент остаётся единственным владельцем email.
	stored, err := env.customers.GetByEmail("alice@example.com")
	require.NoError(t, err)
	require.Equal(t, first.Customer.ID, stored.ID)
}

func TestBulkCreateCustomers_PartialFailure(t *testing.T) {
	env := newTestEnv()

	_, err := env.service.CreateCustomer(context.Background(), mutation.CustomerInput{
		Name:  "Bob The Builder",
		Email: "bob@example.com",
	})
	require.NoError(t, err)

	result, err := env.service.BulkCreateCustomers(context.Background(), []mutation.CustomerInput{
		{Name: "Alice Wonderland", Email: "alice@example.com", Phone: "+1234567890"},
		{Name: "Duplicate Bob", Email: "bob@example.com"},
		{Name: "Charlie Chaplin", Email: "charlie@example.com", Phone: "123-456-7890"},
	})
	require.NoError(t, err, "per-item failures must not fail the batch")

	require.Len(t, result.Customers, 2)
	require.Equal(t, "alice@example.com", result.Customers[0].Email)
	require.Equal(t, "charlie@example.com", result.Customers[1].Email)

	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "bob@example.com")
	require.Contains(t, result.Errors[0], "email already exists")

	// Строки #1 и #3 записаны, дубликат — нет.
	for _, email := range []string{"alice@example.com", "charlie@example.com"} {
		exists, err := env.customers.ExistsByEmail(email)
		require.NoError(t, err)
		require.True(t, exists, email)
	}
	stored, err := env.customers.GetByEmail("bob@example.com")
	require.NoError(t, err)
	require.Equal(t, "Bob The Builder", stored.Name, "original row must survive the failed duplicate")
}

func TestBulkCreateCustomers_DuplicateWithinBatch(t *testing.T) {
	env := newTestEnv()

	result, err := env.service.BulkCreateCustomers(context.Background(), []mutation.CustomerInput{
		{Name: "Alice", Email: "alice@example.com"},
		{Name: "Alice Again", Email: "alice@example.com"},
	})
	require.NoError(t, err)

	require.Len(t, result.Customers, 1)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "alice@example.com")

	stored, err := env.customers.GetByEmail("alice@example.com")
	require.NoError(t, err)
	require.Equal(t, "Alice", stored.Name, "first occurrence wins")
}

func TestBulkCreateCustomers_BadPhoneRow(t *testing.T) {
	env := newTestEnv()

	result, err := env.service.BulkCreateCustomers(context.Background(), []mutation.CustomerInput{
		{Name: "Alice", Email: "alice@example.com", Phone: "not-a-phone"},
	})
	require.NoError(t, err)
	require.Empty(t, result.Customers)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "alice@example.com")
	require.Contains(t, result.Errors[0], "invalid phone format")
}

func TestBulkCreateCustomers_EmptyInput(t *testing.T) {
	env := newTestEnv()

	result, err := env.service.BulkCreateCustomers(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, result.Customers)
	require.NotNil(t, result.Errors)
	require.Empty(t, result.Customers)
	require.Empty(t, result.Errors)
}

// failingCustomerRepository имитирует системный сбой хранилища.
type failingCustomerRepository struct{}

func (failingCustomerRepository) Create(domain.Customer) error { return errors.New("store is down") }
func (failingCustomerRepository) Get(string) (domain.Customer, error) {
	return domain.Customer{}, errors.New("store is down")
}
func (failingCustomerRepository) GetByEmail(string) (domain.Customer, error) {
	return domain.Customer{}, errors.New("store is down")
}
func (failingCustomerRepository) ExistsByEmail(string) (bool, error) {
	return false, errors.New("store is down")
}

func TestBulkCreateCustomers_SystemicFailureAborts(t *testing.T) {
	service := mutation.NewService(
		failingCustomerRepository{},
		memory.NewProductRepository(),
		memory.NewOrderRepository(),
		loggerForTests(),
		nil,
		nil,
	)

	_, err := service.BulkCreateCustomers(context.Background(), []mutation.CustomerInput{
		{Name: "Alice", Email: "alice@example.com"},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "store is down")
}

func TestCreateProduct_Success(t *testing.T) {
	env := newTestEnv()

	stock := int32(10)
	product, err := env.service.CreateProduct(context.Background(), mutation.ProductInput{
		Name:  "Laptop",
		Price: decimal.RequireFromString("1200.50"),
		Stock: &stock,
	})
	require.NoError(t, err)
	require.Equal(t, int32(10), product.Stock)
	require.True(t, product.Price.Equal(decimal.RequireFromString("1200.50")))

	stored, err := env.products.Get(product.ID)
	require.NoError(t, err)
	require.True(t, stored.Price.Equal(product.Price))
	require.Equal(t, product.ID, stored.ID)
}

func TestCreateProduct_StockDefaultsToZero(t *testing.T) {
	env := newTestEnv()

	product, err := env.service.CreateProduct(context.Background(), mutation.ProductInput{
		Name:  "Mouse",
		Price: decimal.RequireFromString("25.00"),
	})
	require.NoError(t, err)
	require.Equal(t, int32(0), product.Stock)
}

func TestCreateProduct_InvalidValues(t *testing.T) {
	env := newTestEnv()

	cases := []struct {
		name    string
		input   mutation.ProductInput
		wantErr error
	}{
		{
			name:    "zero price",
			input:   mutation.ProductInput{Name: "Free", Price: decimal.Zero},
			wantErr: domain.ErrPriceNotPositive,
		},
		{
			name:    "negative price",
			input:   mutation.ProductInput{Name: "Refund", Price: decimal.RequireFromString("-1")},
			wantErr: domain.ErrPriceNotPositive,
		},
		{
			name: "negative stock",
			input: mutation.ProductInput{
				Name:  "Ghost",
				Price: decimal.RequireFromString("5.00"),
				Stock: func() *int32 { v := int32(-1); return &v }(),
			},
			wantErr: domain.ErrStockNegative,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.service.CreateProduct(context.Background(), tc.input)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCreateCustomer_PublishesEvent(t *testing.T) {
	publisher := &capturingPublisher{}
	service := mutation.NewService(
		memory.NewCustomerRepository(),
		memory.NewProductRepository(),
		memory.NewOrderRepository(),
		loggerForTests(),
		nil,
		publisher,
	)

	result, err := service.CreateCustomer(context.Background(), mutation.CustomerInput{
		Name:  "Alice",
		Email: "alice@example.com",
	})
	require.NoError(t, err)

	require.Equal(t, []string{"crm.customer.events"}, publisher.topics)
	require.Equal(t, []string{result.Customer.ID}, publisher.keys)
}

// erroringPublisher всегда падает; мутация не должна от этого страдать.
type erroringPublisher struct{}

func (erroringPublisher) PublishEvent(string, string, interface{}) error {
	return fmt.Errorf("kafka unavailable")
}

func TestCreateCustomer_PublishFailureIsNonFatal(t *testing.T) {
	service := mutation.NewService(
		memory.NewCustomerRepository(),
		memory.NewProductRepository(),
		memory.NewOrderRepository(),
		loggerForTests(),
		nil,
		erroringPublisher{},
	)

	_, err := service.CreateCustomer(context.Background(), mutation.CustomerInput{
		Name:  "Alice",
		Email: "alice@example.com",
	})
	require.NoError(t, err)
}
