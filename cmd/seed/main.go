package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/crm/internal/service/mutation"
	"github.com/vladislavdragonenkov/crm/internal/storage/postgres"
)

const defaultTimeout = 60 * time.Second

func int32ptr(v int32) *int32 { return &v }

func main() {
	var dsn string
	flag.StringVar(&dsn, "dsn", "", "PostgreSQL DSN (fallback: CRM_POSTGRES_DSN)")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	logger := log.WithField("component", "seed")

	if strings.TrimSpace(dsn) == "" {
		dsn = strings.TrimSpace(os.Getenv("CRM_POSTGRES_DSN"))
	}
	if dsn == "" {
		fail("CRM_POSTGRES_DSN (or -dsn) is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		fail("open postgres store: %v", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		fail("apply migrations: %v", err)
	}

	customers := postgres.NewCustomerRepository(store)
	products := postgres.NewProductRepository(store)
	orders := postgres.NewOrderRepository(store)
	service := mutation.NewService(customers, products, orders, logger, nil, nil)

	// Клиенты создаются пачкой: уже существующие попадут в errors и будут
	// просто пропущены при повторном запуске.
	bulk, err := service.BulkCreateCustomers(ctx, []mutation.CustomerInput{
		{Name: "Alice Johnson", Email: "alice@example.com", Phone: "+1234567890"},
		{Name: "Bob Smith", Email: "bob@example.com", Phone: "123-456-7890"},
		{Name: "Charlie Brown", Email: "charlie@example.com"},
		{Name: "Diana Prince", Email: "diana@example.com", Phone: "+15550123456"},
	})
	if err != nil {
		fail("seed customers: %v", err)
	}
	logger.Infof("создано клиентов: %d", len(bulk.Customers))
	for _, e := range bulk.Errors {
		logger.Warn(e)
	}

	seedProducts := []mutation.ProductInput{
		{Name: "Laptop", Price: decimal.RequireFromString("1200.50"), Stock: int32ptr(10)},
		{Name: "Mouse", Price: decimal.RequireFromString("25.00"), Stock: int32ptr(50)},
		{Name: "Keyboard", Price: decimal.RequireFromString("75.99"), Stock: int32ptr(30)},
		{Name: "Monitor", Price: decimal.RequireFromString("300.00"), Stock: int32ptr(15)},
	}

	productIDs := make([]string, 0, 2)
	for i, input := range seedProducts {
		product, err := service.CreateProduct(ctx, input)
		if err != nil {
			fail("seed product %s: %v", input.Name, err)
		}
		logger.Infof("создан товар %s (%s)", product.Name, product.Price)
		if i < 2 {
			productIDs = append(productIDs, product.ID)
		}
	}

	// Демонстрационный заказ: Laptop + Mouse для Alice.
	alice, err := customers.GetByEmail("alice@example.com")
	if err != nil {
		fail("lookup alice: %v", err)
	}

	order, err := service.CreateOrder(ctx, mutation.OrderInput{
		CustomerID: alice.ID,
		ProductIDs: productIDs,
	})
	if err != nil {
		fail("seed order: %v", err)
	}
	logger.Infof("создан заказ %s на сумму %s", order.ID, order.TotalAmount)
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
