package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

func TestCustomerRepository_PostgresCreateAndLookup(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewCustomerRepository(store)

	now := time.Now().UTC().Round(time.Microsecond)
	customer := domain.Customer{
		ID:        "customer-1",
		Name:      "Alice Wonderland",
		Email:     "alice@example.com",
		Phone:     "+1234567890",
		CreatedAt: now,
	}
	if err := repo.Create(customer); err != nil {
		t.Fatalf("create customer: %v", err)
	}

	got, err := repo.Get(customer.ID)
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if got != customer {
		t.Fatalf("unexpected customer payload: %+v", got)
	}

	byEmail, err := repo.GetByEmail(customer.Email)
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != customer.ID {
		t.Fatalf("get by email returned %s, want %s", byEmail.ID, customer.ID)
	}

	exists, err := repo.ExistsByEmail(customer.Email)
	if err != nil {
		t.Fatalf("exists by email: %v", err)
	}
	if !exists {
		t.Fatal("email must exist after create")
	}
}

func TestCustomerRepository_PostgresDuplicateEmail(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewCustomerRepository(store)

	now := time.Now().UTC().Round(time.Microsecond)
	if err := repo.Create(domain.Customer{ID: "customer-1", Name: "Alice", Email: "alice@example.com", CreatedAt: now}); err != nil {
		t.Fatalf("create customer: %v", err)
	}

	err := repo.Create(domain.Customer{ID: "customer-2", Name: "Another Alice", Email: "alice@example.com", CreatedAt: now})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	if _, err := repo.Get("customer-2"); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("failed insert must not persist, got %v", err)
	}
}

func TestCustomerRepository_PostgresEmptyPhoneStoredAsNull(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewCustomerRepository(store)

	now := time.Now().UTC().Round(time.Microsecond)
	if err := repo.Create(domain.Customer{ID: "customer-1", Name: "Charlie", Email: "charlie@example.com", CreatedAt: now}); err != nil {
		t.Fatalf("create customer: %v", err)
	}

	got, err := repo.Get("customer-1")
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if got.Phone != "" {
		t.Fatalf("phone must round-trip as empty string, got %q", got.Phone)
	}
}

func TestConstraintClassifiers(t *testing.T) {
	if !isUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("23505 must be a unique violation")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "22001"}) {
		t.Fatal("22001 is not a unique violation")
	}
	if isUniqueViolation(errors.New("plain error")) {
		t.Fatal("plain error is not a unique violation")
	}

	if !isConstraintViolation(&pgconn.PgError{Code: "23505", ConstraintName: customerEmailConstraint}, customerEmailConstraint) {
		t.Fatal("email constraint must be recognized")
	}
	if isConstraintViolation(&pgconn.PgError{Code: "23505", ConstraintName: "other_key"}, customerEmailConstraint) {
		t.Fatal("other constraint must not match the email constraint")
	}

	if !isConstraintError(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("foreign key violation must be a constraint error")
	}
	if isConstraintError(&pgconn.PgError{Code: "42601"}) {
		t.Fatal("syntax error is not a constraint error")
	}
}
