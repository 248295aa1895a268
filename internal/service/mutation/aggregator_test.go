package mutation_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/service/mutation"
	"github.com/vladislavdragonenkov/crm/internal/storage/memory"
)

// seedOrderEnv наполняет каталог клиентом и двумя товарами.
func seedOrderEnv(t *testing.T) (*testEnv, domain.Customer, []domain.Product) {
	t.Helper()
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.service.CreateCustomer(ctx, mutation.CustomerInput{
		Name:  "Alice Wonderland",
		Email: "alice@example.com",
	})
	require.NoError(t, err)

	laptop, err := env.service.CreateProduct(ctx, mutation.ProductInput{
		Name:  "Laptop",
		Price: decimal.RequireFromString("1200.50"),
	})
	require.NoError(t, err)

	mouse, err := env.service.CreateProduct(ctx, mutation.ProductInput{
		Name:  "Mouse",
		Price: decimal.RequireFromString("25.00"),
	})
	require.NoError(t, err)

	return env, created.Customer, []domain.Product{laptop, mouse}
}

func TestCreateOrder_TotalIsExactDecimalSum(t *testing.T) {
	env, customer, products := seedOrderEnv(t)

	order, err := env.service.CreateOrder(context.Background(), mutation.OrderInput{
		CustomerID: customer.ID,
		ProductIDs: []string{products[0].ID, products[1].ID},
	})
	require.NoError(t, err)
	require.True(t, order.TotalAmount.Equal(decimal.RequireFromString("1225.50")),
		"total = %s", order.TotalAmount)

	// Get сразу после create возвращает тот же заказ.
	stored, err := env.orders.Get(order.ID)
	require.NoError(t, err)
	require.Equal(t, order.ID, stored.ID)
	require.True(t, stored.TotalAmount.Equal(order.TotalAmount))
	require.Equal(t, order.ProductIDs, stored.ProductIDs)
}

func TestCreateOrder_TotalCommutative(t *testing.T) {
	env, customer, products := seedOrderEnv(t)
	ctx := context.Background()

	forward, err := env.service.CreateOrder(ctx, mutation.OrderInput{
		CustomerID: customer.ID,
		ProductIDs: []string{products[0].ID, products[1].ID},
	})
	require.NoError(t, err)

	reversed, err := env.service.CreateOrder(ctx, mutation.OrderInput{
		CustomerID: customer.ID,
		ProductIDs: []string{products[1].ID, products[0].ID},
	})
	require.NoError(t, err)

	require.True(t, forward.TotalAmount.Equal(reversed.TotalAmount))
}

func TestCreateOrder_SnapshotTotal(t *testing.T) {
	env, customer, products := seedOrderEnv(t)
	ctx := context.Background()

	order, err := env.service.CreateOrder(ctx, mutation.OrderInput{
		CustomerID: customer.ID,
		ProductIDs: []string{products[0].ID},
	})
	require.NoError(t, err)

	// "Подорожание" товара моделируем новым товаром: сумма существующего заказа
	// зафиксирована на момент создания и перечитываться не должна.
	stored, err := env.orders.Get(order.ID)
	require.NoError(t, err)
	require.True(t, stored.TotalAmount.Equal(decimal.RequireFromString("1200.50")))
}

func TestCreateOrder_EmptyProductList(t *testing.T) {
	env, customer, _ := seedOrderEnv(t)

	_, err := env.service.CreateOrder(context.Background(), mutation.OrderInput{
		CustomerID: customer.ID,
		ProductIDs: nil,
	})
	require.ErrorIs(t, err, domain.ErrProductsRequired)
}

func TestCreateOrder_UnknownCustomer(t *testing.T) {
	env, _, products := seedOrderEnv(t)

	_, err := env.service.CreateOrder(context.Background(), mutation.OrderInput{
		CustomerID: "customer-unknown",
		ProductIDs: []string{products[0].ID},
	})
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
	require.Contains(t, err.Error(), "customer-unknown")
}

// countingOrderRepository фиксирует обращения к Create.
type countingOrderRepository struct {
	domain.OrderRepository
	creates int
}

func (r *countingOrderRepository) Create(order domain.Order) error {
	r.creates++
	return r.OrderRepository.Create(order)
}

func TestCreateOrder_UnknownProductPersistsNothing(t *testing.T) {
	customers := memory.NewCustomerRepository()
	products := memory.NewProductRepository()
	orders := &countingOrderRepository{OrderRepository: memory.NewOrderRepository()}
	service := mutation.NewService(customers, products, orders, loggerForTests(), nil, nil)
	ctx := context.Background()

	created, err := service.CreateCustomer(ctx, mutation.CustomerInput{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	laptop, err := service.CreateProduct(ctx, mutation.ProductInput{Name: "Laptop", Price: decimal.RequireFromString("1200.50")})
	require.NoError(t, err)

	_, err = service.CreateOrder(ctx, mutation.OrderInput{
		CustomerID: created.Customer.ID,
		ProductIDs: []string{laptop.ID, "product-unknown"},
	})
	require.ErrorIs(t, err, domain.ErrProductNotFound)
	require.Contains(t, err.Error(), "product-unknown", "error must name the first missing id")
	require.Zero(t, orders.creates, "nothing may reach the store after a failed resolve")
}

func TestCreateOrder_OrderDateDefaultsToNow(t *testing.T) {
	env, customer, products := seedOrderEnv(t)

	before := time.Now().UTC()
	order, err := env.service.CreateOrder(context.Background(), mutation.OrderInput{
		CustomerID: customer.ID,
		ProductIDs: []string{products[0].ID},
	})
	require.NoError(t, err)
	require.False(t, order.OrderDate.Before(before))
	require.False(t, order.OrderDate.After(time.Now().UTC()))
}

func TestCreateOrder_ExplicitOrderDate(t *testing.T) {
	env, customer, products := seedOrderEnv(t)

	orderDate := time.Date(2025, time.March, 14, 9, 26, 53, 0, time.UTC)
	order, err := env.service.CreateOrder(context.Background(), mutation.OrderInput{
		CustomerID: customer.ID,
		ProductIDs: []string{products[0].ID},
		OrderDate:  &orderDate,
	})
	require.NoError(t, err)
	require.True(t, order.OrderDate.Equal(orderDate))
}

func TestCreateOrder_KeepsProductOrder(t *testing.T) {
	env, customer, products := seedOrderEnv(t)

	order, err := env.service.CreateOrder(context.Background(), mutation.OrderInput{
		CustomerID: customer.ID,
		ProductIDs: []string{products[1].ID, products[0].ID},
	})
	require.NoError(t, err)
	require.Equal(t, []string{products[1].ID, products[0].ID}, order.ProductIDs)
}
