package domain

// CustomerRepository описывает требования к хранилищу клиентов.
type CustomerRepository interface {
	// Create сохраняет нового клиента. Возвращает ErrDuplicateEmail, если email занят,
	// и ErrAlreadyExists при коллизии ID.
	Create(customer Customer) error
	// Get возвращает клиента по идентификатору или ErrCustomerNotFound, если его нет.
	Get(id string) (Customer, error)
	// GetByEmail возвращает клиента по email или ErrCustomerNotFound.
	GetByEmail(email string) (Customer, error)
	// ExistsByEmail проверяет занятость email без загрузки сущности.
	ExistsByEmail(email string) (bool, error)
}

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	// Create сохраняет новый товар. Возвращает ErrAlreadyExists при коллизии ID.
	Create(product Product) error
	// Get возвращает товар по идентификатору или ErrProductNotFound, если его нет.
	Get(id string) (Product, error)
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create атомарно сохраняет заказ вместе со связями заказ-товар:
	// либо записывается всё, либо ничего.
	Create(order Order) error
	// Get возвращает заказ (включая список товаров) или ErrOrderNotFound.
	Get(id string) (Order, error)
}
