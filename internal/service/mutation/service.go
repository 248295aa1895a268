package mutation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/crm/internal/metrics"
)

// CustomerCreatedMessage возвращается вызывающему вместе с созданным клиентом.
const CustomerCreatedMessage = "Customer created successfully"

// CustomerInput — входные данные одной записи клиента.
type CustomerInput struct {
	Name  string
	Email string
	// Phone опционален.
	Phone string
}

// CreateCustomerResult — результат CreateCustomer.
type CreateCustomerResult struct {
	Customer domain.Customer
	Message  string
}

// BulkCreateCustomersResult — результат best-effort импорта.
// Customers идут в порядке входных строк (неудачные пропущены),
// Errors — в порядке входных строк с указанием email и причины.
type BulkCreateCustomersResult struct {
	Customers []domain.Customer
	Errors    []string
}

// ProductInput — входные данные товара. Stock=nil трактуется как 0.
type ProductInput struct {
	Name  string
	Price decimal.Decimal
	Stock *int32
}

// OrderInput — входные данные заказа. OrderDate=nil трактуется как "сейчас".
type OrderInput struct {
	CustomerID string
	ProductIDs []string
	OrderDate  *time.Time
}

// EventPublisher публикует события о созданных сущностях. Реализуется kafka.Producer.
type EventPublisher interface {
	PublishEvent(topic string, key string, event interface{}) error
}

// Service оркестрирует валидацию и запись сущностей CRM.
type Service struct {
	customers domain.CustomerRepository
	products  domain.ProductRepository
	orders    domain.OrderRepository
	logger    *log.Entry
	metrics   *metrics.MutationMetrics
	events    EventPublisher
}

// NewService конструирует сервис с зависимостями. metrics и events опциональны.
func NewService(
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	logger *log.Entry,
	mutationMetrics *metrics.MutationMetrics,
	events EventPublisher,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "mutation-service")
	}
	return &Service{
		customers: customers,
		products:  products,
		orders:    orders,
		logger:    logger,
		metrics:   mutationMetrics,
		events:    events,
	}
}

// CreateCustomer валидирует и сохраняет одного клиента.
// Занятый email — жёсткий отказ с ErrDuplicateEmail; ничего не записывается.
func (s *Service) CreateCustomer(ctx context.Context, input CustomerInput) (CreateCustomerResult, error) {
	started := time.Now()

	customer, err := s.createCustomer(ctx, input)
	if err != nil {
		s.recordFailure(metrics.OpCreateCustomer, started)
		return CreateCustomerResult{}, err
	}

	s.recordSuccess(metrics.OpCreateCustomer, started)
	s.publish(kafka.TopicCustomerEvents, kafka.EventTypeCustomerCreated, customer.ID, map[string]interface{}{
		"email": customer.Email,
	})

	return CreateCustomerResult{Customer: customer, Message: CustomerCreatedMessage}, nil
}

// BulkCreateCustomers обрабатывает каждую строку независимо: ошибка одной строки
// не прерывает пакет и не откатывает уже записанные строки. Прерывает импорт
// только системный сбой хранилища.
func (s *Service) BulkCreateCustomers(ctx context.Context, inputs []CustomerInput) (BulkCreateCustomersResult, error) {
	started := time.Now()

	result := BulkCreateCustomersResult{
		Customers: make([]domain.Customer, 0, len(inputs)),
		Errors:    make([]string, 0),
	}

	for _, input := range inputs {
		customer, err := s.createCustomer(ctx, input)
		if err != nil {
			if !isRecoverable(err) {
				s.recordFailure(metrics.OpBulkCreateCustomers, started)
				return BulkCreateCustomersResult{}, fmt.Errorf("bulk create customers: %w", err)
			}
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to create customer %s: %s", input.Email, reason(err)))
			continue
		}

		result.Customers = append(result.Customers, customer)
		s.publish(kafka.TopicCustomerEvents, kafka.EventTypeCustomerCreated, customer.ID, map[string]interface{}{
			"email": customer.Email,
		})
	}

	s.recordSuccess(metrics.OpBulkCreateCustomers, started)
	if s.metrics != nil {
		s.metrics.RecordBulkItems(len(result.Customers), len(result.Errors))
	}

	return result, nil
}

// CreateProduct валидирует и сохраняет товар. Отсутствующий stock трактуется как 0.
func (s *Service) CreateProduct(ctx context.Context, input ProductInput) (domain.Product, error) {
	started := time.Now()

	var stock int32
	if input.Stock != nil {
		stock = *input.Stock
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Price:     input.Price,
		Stock:     stock,
		CreatedAt: now,
	}

	if errs := product.ValidateInvariants(); len(errs) > 0 {
		s.recordFailure(metrics.OpCreateProduct, started)
		return domain.Product{}, errs[0]
	}

	if err := s.products.Create(product); err != nil {
		s.recordFailure(metrics.OpCreateProduct, started)
		s.logger.WithError(err).WithField("name", product.Name).Error("failed to create product")
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}

	s.recordSuccess(metrics.OpCreateProduct, started)
	s.publish(kafka.TopicProductEvents, kafka.EventTypeProductCreated, product.ID, map[string]interface{}{
		"name": product.Name,
	})

	return product, nil
}

// createCustomer — общий путь для одиночного и bulk-сценария.
func (s *Service) createCustomer(_ context.Context, input CustomerInput) (domain.Customer, error) {
	if !domain.ValidatePhone(input.Phone) {
		return domain.Customer{}, domain.ErrInvalidPhoneFormat
	}

	customer := domain.Customer{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		CreatedAt: time.Now().UTC(),
	}
	if errs := customer.ValidateInvariants(); len(errs) > 0 {
		return domain.Customer{}, errs[0]
	}

	exists, err := s.customers.ExistsByEmail(input.Email)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return domain.Customer{}, domain.ErrDuplicateEmail
	}

	// Гонку между проверкой и записью закрывает unique constraint хранилища:
	// репозиторий вернёт тот же ErrDuplicateEmail.
	if err := s.customers.Create(customer); err != nil {
		if !domain.IsDuplicateEmail(err) {
			s.logger.WithError(err).WithField("email", input.Email).Error("failed to create customer")
		}
		return domain.Customer{}, err
	}

	return customer, nil
}

// isRecoverable отделяет ошибки конкретной строки от системных сбоев хранилища.
func isRecoverable(err error) bool {
	return domain.IsValidation(err) ||
		domain.IsDuplicateEmail(err) ||
		errors.Is(err, domain.ErrConstraintViolation)
}

// reason возвращает человекочитаемую причину без служебных обёрток.
func reason(err error) string {
	for _, target := range []error{
		domain.ErrDuplicateEmail,
		domain.ErrInvalidPhoneFormat,
		domain.ErrNameRequired,
		domain.ErrEmailRequired,
		domain.ErrConstraintViolation,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}

func (s *Service) recordSuccess(operation string, started time.Time) {
	if s.metrics != nil {
		s.metrics.RecordSuccess(operation, time.Since(started))
	}
}

func (s *Service) recordFailure(operation string, started time.Time) {
	if s.metrics != nil {
		s.metrics.RecordFailure(operation, time.Since(started))
	}
}

func (s *Service) publish(topic string, eventType kafka.EventType, entityID string, metadata map[string]interface{}) {
	if s.events == nil {
		return
	}
	// Исход мутации не зависит от результата публикации.
	if err := s.events.PublishEvent(topic, entityID, kafka.NewEntityEvent(eventType, entityID, metadata)); err != nil {
		s.logger.WithError(err).WithField("topic", topic).Warn("failed to publish entity event")
	}
}
