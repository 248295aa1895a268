package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

const (
	opTimeout = 5 * time.Second

	customerEmailConstraint = "customers_email_key"
)

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository создаёт PostgreSQL-реализацию CustomerRepository.
func NewCustomerRepository(store *Store) domain.CustomerRepository {
	return &customerRepository{db: store.DB()}
}

func (r *customerRepository) Create(customer domain.Customer) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, phone, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
	`,
		customer.ID, customer.Name, customer.Email, customer.Phone, customer.CreatedAt,
	)
	if err != nil {
		// Гонку за email решает unique constraint; классифицируем её так же,
		// как предварительную проверку в сервисе.
		switch {
		case isConstraintViolation(err, customerEmailConstraint):
			return domain.ErrDuplicateEmail
		case isUniqueViolation(err):
			return domain.ErrAlreadyExists
		case isConstraintError(err):
			return fmt.Errorf("insert customer: %w", domain.ErrConstraintViolation)
		}
		return fmt.Errorf("insert customer: %w", err)
	}

	return nil
}

func (r *customerRepository) Get(id string) (domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return r.scanCustomer(r.db.QueryRowContext(ctx, `
		SELECT id, name, email, COALESCE(phone, ''), created_at
		FROM customers
		WHERE id = $1
	`, id))
}

func (r *customerRepository) GetByEmail(email string) (domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return r.scanCustomer(r.db.QueryRowContext(ctx, `
		SELECT id, name, email, COALESCE(phone, ''), created_at
		FROM customers
		WHERE email = $1
	`, email))
}

func (r *customerRepository) ExistsByEmail(email string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM customers WHERE email = $1)
	`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check customer email: %w", err)
	}

	return exists, nil
}

func (r *customerRepository) scanCustomer(row *sql.Row) (domain.Customer, error) {
	var customer domain.Customer
	err := row.Scan(&customer.ID, &customer.Name, &customer.Email, &customer.Phone, &customer.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, fmt.Errorf("select customer: %w", err)
	}
	return customer, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isConstraintViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == constraint
	}
	return false
}

// isConstraintError ловит прочие нарушения ограничений класса 23 (check, not null, FK).
func isConstraintError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return len(pgErr.Code) >= 2 && pgErr.Code[:2] == "23"
	}
	return false
}

var _ domain.CustomerRepository = (*customerRepository)(nil)
