package mutation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/crm/internal/metrics"
)

// CreateOrder резолвит клиента и товары, считает снапшот-сумму и атомарно
// сохраняет заказ со связями. Товары резолвятся в порядке входного списка;
// первый неизвестный id прерывает операцию, его имя попадает в ошибку.
func (s *Service) CreateOrder(ctx context.Context, input OrderInput) (domain.Order, error) {
	started := time.Now()

	order, err := s.aggregateOrder(ctx, input)
	if err != nil {
		s.recordFailure(metrics.OpCreateOrder, started)
		return domain.Order{}, err
	}

	if err := s.orders.Create(order); err != nil {
		s.recordFailure(metrics.OpCreateOrder, started)
		s.logger.WithError(err).WithField("order_id", order.ID).Error("failed to create order")
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	s.recordSuccess(metrics.OpCreateOrder, started)
	s.publish(kafka.TopicOrderEvents, kafka.EventTypeOrderCreated, order.ID, map[string]interface{}{
		"customer_id":  order.CustomerID,
		"total_amount": order.TotalAmount.String(),
	})

	return order, nil
}

func (s *Service) aggregateOrder(_ context.Context, input OrderInput) (domain.Order, error) {
	if input.CustomerID == "" {
		return domain.Order{}, domain.ErrCustomerRequired
	}
	if len(input.ProductIDs) == 0 {
		return domain.Order{}, domain.ErrProductsRequired
	}

	customer, err := s.customers.Get(input.CustomerID)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.Order{}, fmt.Errorf("customer %s: %w", input.CustomerID, domain.ErrCustomerNotFound)
		}
		return domain.Order{}, fmt.Errorf("resolve customer: %w", err)
	}

	products := make([]domain.Product, 0, len(input.ProductIDs))
	for _, productID := range input.ProductIDs {
		product, err := s.products.Get(productID)
		if err != nil {
			if domain.IsNotFound(err) {
				return domain.Order{}, fmt.Errorf("product %s: %w", productID, domain.ErrProductNotFound)
			}
			return domain.Order{}, fmt.Errorf("resolve product %s: %w", productID, err)
		}
		products = append(products, product)
	}

	now := time.Now().UTC()
	orderDate := now
	if input.OrderDate != nil {
		orderDate = input.OrderDate.UTC()
	}

	order := domain.Order{
		ID:         uuid.NewString(),
		CustomerID: customer.ID,
		ProductIDs: append([]string(nil), input.ProductIDs...),
		// Сумма фиксируется на момент создания заказа; последующие изменения
		// цен товаров её не меняют.
		TotalAmount: domain.TotalOf(products),
		OrderDate:   orderDate,
		CreatedAt:   now,
	}

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, errs[0]
	}

	return order, nil
}
