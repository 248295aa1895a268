package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product представляет товар каталога.
type Product struct {
	ID   string
	Name string
	// Price — цена в decimal, чтобы суммы заказов считались без дрейфа float.
	Price decimal.Decimal
	// Stock — складской остаток; по умолчанию 0.
	Stock     int32
	CreatedAt time.Time
}

// ValidatePrice требует строго положительную цену.
func ValidatePrice(price decimal.Decimal) bool {
	return price.IsPositive()
}

// ValidateStock требует неотрицательный остаток.
func ValidateStock(stock int32) bool {
	return stock >= 0
}

// ValidateInvariants проверяет базовые инварианты товара и возвращает список замечаний.
func (p *Product) ValidateInvariants() []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, ErrNameRequired)
	}
	if !ValidatePrice(p.Price) {
		errs = append(errs, ErrPriceNotPositive)
	}
	if !ValidateStock(p.Stock) {
		errs = append(errs, ErrStockNegative)
	}

	return errs
}
