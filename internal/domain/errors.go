package domain

import "errors"

var (
	// Ошибка отсутствующего имени клиента или товара.
	ErrNameRequired = errors.New("name is required")
	// Ошибка отсутствующего email клиента.
	ErrEmailRequired = errors.New("email is required")
	// ErrDuplicateEmail возвращается, когда email уже занят другим клиентом.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrInvalidPhoneFormat возвращается, когда телефон не совпадает ни с одним из допустимых форматов.
	ErrInvalidPhoneFormat = errors.New("invalid phone format")
	// Ошибка неположительной цены товара.
	ErrPriceNotPositive = errors.New("price must be positive")
	// Ошибка отрицательного остатка товара.
	ErrStockNegative = errors.New("stock cannot be negative")
	// Ошибка отсутствующего идентификатора клиента в заказе.
	ErrCustomerRequired = errors.New("customer_id is required")
	// Ошибка отсутствия хотя бы одного товара в заказе.
	ErrProductsRequired = errors.New("order must contain at least one product")
	// Ошибка отрицательной суммы заказа.
	ErrTotalNegative = errors.New("total_amount must be non-negative")
	// Ошибка несоответствия суммы заказа и цен его товаров.
	ErrTotalMismatch = errors.New("order total does not match products sum")
	// ErrCustomerNotFound возвращается, если клиент не найден в репозитории.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrProductNotFound возвращается, если товар не найден в репозитории.
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrAlreadyExists сигнализирует о попытке повторно сохранить сущность с тем же ID.
	ErrAlreadyExists = errors.New("entity already exists")
	// ErrConstraintViolation — прочие ограничения хранилища, не классифицированные выше.
	ErrConstraintViolation = errors.New("constraint violation")
)

// IsDuplicateEmail проверяет, является ли ошибка конфликтом уникальности email.
func IsDuplicateEmail(err error) bool {
	return errors.Is(err, ErrDuplicateEmail)
}

// IsNotFound проверяет, относится ли ошибка к классу "сущность не найдена".
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrOrderNotFound)
}

// IsValidation проверяет, относится ли ошибка к нарушению бизнес-правил входных данных.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrNameRequired,
		ErrEmailRequired,
		ErrInvalidPhoneFormat,
		ErrPriceNotPositive,
		ErrStockNegative,
		ErrCustomerRequired,
		ErrProductsRequired,
		ErrTotalNegative,
		ErrTotalMismatch,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
