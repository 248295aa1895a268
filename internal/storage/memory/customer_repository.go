package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

// customerRepositoryInMemory — простая in-memory реализация CustomerRepository.
type customerRepositoryInMemory struct {
	mu      sync.RWMutex
	items   map[string]domain.Customer
	byEmail map[string]string
}

// NewCustomerRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewCustomerRepository() domain.CustomerRepository {
	return &customerRepositoryInMemory{
		items:   make(map[string]domain.Customer),
		byEmail: make(map[string]string),
	}
}

// Create сохраняет нового клиента, если ID и email ещё не заняты.
func (r *customerRepositoryInMemory) Create(customer domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[customer.ID]; exists {
		return domain.ErrAlreadyExists
	}
	if _, exists := r.byEmail[customer.Email]; exists {
		// Тот же класс ошибки, что и unique constraint в PostgreSQL.
		return domain.ErrDuplicateEmail
	}

	r.items[customer.ID] = customer
	r.byEmail[customer.Email] = customer.ID
	return nil
}

// Get возвращает клиента или ErrCustomerNotFound, если его нет.
func (r *customerRepositoryInMemory) Get(id string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.items[id]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return customer, nil
}

// GetByEmail возвращает клиента по email или ErrCustomerNotFound.
func (r *customerRepositoryInMemory) GetByEmail(email string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return r.items[id], nil
}

// ExistsByEmail проверяет занятость email.
func (r *customerRepositoryInMemory) ExistsByEmail(email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byEmail[email]
	return ok, nil
}

var _ domain.CustomerRepository = (*customerRepositoryInMemory)(nil)
