package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order агрегирует заказ клиента и ссылки на купленные товары.
type Order struct {
	ID         string
	CustomerID string
	// ProductIDs — товары заказа в порядке, в котором их передал вызывающий.
	ProductIDs []string
	// TotalAmount — снапшот суммы цен товаров на момент создания заказа.
	// Последующие изменения цен товаров на сумму не влияют.
	TotalAmount decimal.Decimal
	OrderDate   time.Time
	CreatedAt   time.Time
}

// TotalOf считает сумму цен товаров decimal-арифметикой.
// Сумма коммутативна: порядок товаров на результат не влияет.
func TotalOf(products []Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Price)
	}
	return total
}

// ValidateTotalAgainst сверяет сумму заказа со снапшотом цен его товаров.
func (o *Order) ValidateTotalAgainst(products []Product) error {
	if !o.TotalAmount.Equal(TotalOf(products)) {
		return ErrTotalMismatch
	}
	return nil
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if len(o.ProductIDs) == 0 {
		errs = append(errs, ErrProductsRequired)
	}
	if o.TotalAmount.IsNegative() {
		errs = append(errs, ErrTotalNegative)
	}

	return errs
}
