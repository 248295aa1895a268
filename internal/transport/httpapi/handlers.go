package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/service/mutation"
)

// Handler обрабатывает HTTP-запросы CRM API.
type Handler struct {
	service   *mutation.Service
	customers domain.CustomerRepository
	products  domain.ProductRepository
	orders    domain.OrderRepository
	logger    *log.Entry
}

// NewHandler создаёт handler поверх сервиса мутаций и репозиториев чтения.
func NewHandler(
	service *mutation.Service,
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	logger *log.Entry,
) *Handler {
	if logger == nil {
		logger = log.New().WithField("component", "httpapi")
	}
	return &Handler{
		service:   service,
		customers: customers,
		products:  products,
		orders:    orders,
		logger:    logger,
	}
}

type customerPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type customerView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type productPayload struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock *int32          `json:"stock,omitempty"`
}

type productView struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int32           `json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
}

type orderPayload struct {
	CustomerID string     `json:"customer_id"`
	ProductIDs []string   `json:"product_ids"`
	OrderDate  *time.Time `json:"order_date,omitempty"`
}

type orderView struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customer_id"`
	ProductIDs  []string        `json:"product_ids"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OrderDate   time.Time       `json:"order_date"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toCustomerView(c domain.Customer) customerView {
	return customerView{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone, CreatedAt: c.CreatedAt}
}

func toProductView(p domain.Product) productView {
	return productView{ID: p.ID, Name: p.Name, Price: p.Price, Stock: p.Stock, CreatedAt: p.CreatedAt}
}

func toOrderView(o domain.Order) orderView {
	return orderView{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		ProductIDs:  o.ProductIDs,
		TotalAmount: o.TotalAmount,
		OrderDate:   o.OrderDate,
		CreatedAt:   o.CreatedAt,
	}
}

// CreateCustomer обрабатывает POST /customers.
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var payload customerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	result, err := h.service.CreateCustomer(r.Context(), mutation.CustomerInput(payload))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, struct {
		Customer customerView `json:"customer"`
		Message  string       `json:"message"`
	}{
		Customer: toCustomerView(result.Customer),
		Message:  result.Message,
	})
}

// BulkCreateCustomers обрабатывает POST /customers/bulk.
func (h *Handler) BulkCreateCustomers(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Customers []customerPayload `json:"customers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	inputs := make([]mutation.CustomerInput, 0, len(payload.Customers))
	for _, c := range payload.Customers {
		inputs = append(inputs, mutation.CustomerInput(c))
	}

	result, err := h.service.BulkCreateCustomers(r.Context(), inputs)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	customers := make([]customerView, 0, len(result.Customers))
	for _, c := range result.Customers {
		customers = append(customers, toCustomerView(c))
	}

	respondSuccess(w, struct {
		Customers []customerView `json:"customers"`
		Errors    []string       `json:"errors"`
	}{
		Customers: customers,
		Errors:    result.Errors,
	})
}

// CreateProduct обрабатывает POST /products.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var payload productPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	product, err := h.service.CreateProduct(r.Context(), mutation.ProductInput(payload))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, struct {
		Product productView `json:"product"`
	}{Product: toProductView(product)})
}

// CreateOrder обрабатывает POST /orders.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var payload orderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	order, err := h.service.CreateOrder(r.Context(), mutation.OrderInput(payload))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, struct {
		Order orderView `json:"order"`
	}{Order: toOrderView(order)})
}

// GetCustomer обрабатывает GET /customers/{id}.
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customers.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	respondSuccess(w, toCustomerView(customer))
}

// GetProduct обрабатывает GET /products/{id}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	respondSuccess(w, toProductView(product))
}

// GetOrder обрабатывает GET /orders/{id}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	respondSuccess(w, toOrderView(order))
}
