package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/storage/memory"
	"github.com/vladislavdragonenkov/crm/internal/storage/postgres"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Customers domain.CustomerRepository
	Products  domain.ProductRepository
	Orders    domain.OrderRepository

	// Store не nil только в режиме PostgreSQL.
	Store  *postgres.Store
	Logger *log.Entry
}

// NewDependencies создаёт хранилища по конфигурации: PostgreSQL при заданном
// DSN, иначе in-memory для разработки и тестов.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	if cfg.PostgresDSN == "" {
		logger.Info("postgres DSN не задан, используем in-memory хранилище")
		return &Dependencies{
			Customers: memory.NewCustomerRepository(),
			Products:  memory.NewProductRepository(),
			Orders:    memory.NewOrderRepository(),
			Logger:    logger,
		}, nil
	}

	store, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres store: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("подключились к postgres, миграции применены")

	return &Dependencies{
		Customers: postgres.NewCustomerRepository(store),
		Products:  postgres.NewProductRepository(store),
		Orders:    postgres.NewOrderRepository(store),
		Store:     store,
		Logger:    logger,
	}, nil
}

// Close освобождает ресурсы хранилища.
func (d *Dependencies) Close() {
	if d == nil || d.Store == nil {
		return
	}
	if err := d.Store.Close(); err != nil {
		d.Logger.WithError(err).Warn("failed to close postgres store")
	}
}
