package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

// orderRepositoryInMemory — простая in-memory реализация OrderRepository.
type orderRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Order
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		items: make(map[string]domain.Order),
	}
}

// Create сохраняет заказ вместе со списком товаров одной операцией под мьютексом,
// что даёт ту же атомарность, что и транзакция в PostgreSQL-реализации.
func (r *orderRepositoryInMemory) Create(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[order.ID]; exists {
		return domain.ErrAlreadyExists
	}
	// Копируем срез, чтобы избежать непредсказуемых мутаций извне.
	order.ProductIDs = append([]string(nil), order.ProductIDs...)
	r.items[order.ID] = order
	return nil
}

// Get возвращает заказ или ErrOrderNotFound, если его нет.
func (r *orderRepositoryInMemory) Get(id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	order.ProductIDs = append([]string(nil), order.ProductIDs...)
	return order, nil
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
