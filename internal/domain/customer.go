package domain

import (
	"regexp"
	"time"
)

// Допустимые форматы телефона: международный (+ и до 15 цифр)
// либо локальный ddd-ddd-dddd.
var phonePattern = regexp.MustCompile(`^(\+\d{1,15}|\d{3}-\d{3}-\d{4})$`)

// Customer представляет клиента CRM.
type Customer struct {
	ID string
	// Name — обязательное отображаемое имя.
	Name string
	// Email уникален среди всех клиентов; уникальность гарантирует хранилище.
	Email string
	// Phone опционален; если задан, должен проходить ValidatePhone.
	Phone     string
	CreatedAt time.Time
}

// ValidatePhone проверяет формат телефона. Пустая строка допустима.
func ValidatePhone(phone string) bool {
	if phone == "" {
		return true
	}
	return phonePattern.MatchString(phone)
}

// ValidateInvariants проверяет базовые инварианты клиента и возвращает список замечаний.
func (c *Customer) ValidateInvariants() []error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, ErrNameRequired)
	}
	if c.Email == "" {
		errs = append(errs, ErrEmailRequired)
	}
	if !ValidatePhone(c.Phone) {
		errs = append(errs, ErrInvalidPhoneFormat)
	}

	return errs
}
