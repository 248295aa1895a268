package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

// Create записывает заказ и связи заказ-товар в одной транзакции:
// при любой ошибке не остаётся ни строки заказа, ни строк связей.
func (r *orderRepository) Create(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, total_amount, order_date, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		order.ID, order.CustomerID, order.TotalAmount, order.OrderDate, order.CreatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrAlreadyExists
		case isConstraintError(err):
			return fmt.Errorf("insert order: %w", domain.ErrConstraintViolation)
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for position, productID := range order.ProductIDs {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_products (order_id, product_id, position)
			VALUES ($1, $2, $3)
		`,
			order.ID, productID, position,
		); err != nil {
			if isConstraintError(err) {
				return fmt.Errorf("insert order product %s: %w", productID, domain.ErrConstraintViolation)
			}
			return fmt.Errorf("insert order product: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}

	return nil
}

func (r *orderRepository) Get(id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var order domain.Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, total_amount, order_date, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&order.ID, &order.CustomerID, &order.TotalAmount, &order.OrderDate, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	productIDs, err := r.loadProductIDs(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.ProductIDs = productIDs

	return order, nil
}

// loadProductIDs возвращает товары заказа в порядке, заданном при создании.
func (r *orderRepository) loadProductIDs(ctx context.Context, orderID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id
		FROM order_products
		WHERE order_id = $1
		ORDER BY position ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order products: %w", err)
	}
	defer rows.Close()

	productIDs := make([]string, 0)
	for rows.Next() {
		var productID string
		if err := rows.Scan(&productID); err != nil {
			return nil, fmt.Errorf("scan order product: %w", err)
		}
		productIDs = append(productIDs, productID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order products: %w", err)
	}

	return productIDs, nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
