package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

// NewRouter собирает chi-маршрутизатор CRM API.
func NewRouter(h *Handler, logger *log.Entry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Route("/customers", func(r chi.Router) {
		r.Post("/", h.CreateCustomer)
		r.Post("/bulk", h.BulkCreateCustomers)
		r.Get("/{id}", h.GetCustomer)
	})
	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.CreateProduct)
		r.Get("/{id}", h.GetProduct)
	})
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/{id}", h.GetOrder)
	})

	return r
}

// requestLogger логирует каждый запрос в стиле logrus.
func requestLogger(logger *log.Entry) func(http.Handler) http.Handler {
	if logger == nil {
		logger = log.New().WithField("component", "httpapi")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.WithFields(log.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   ww.Status(),
				"duration": time.Since(started).String(),
			}).Debug("http request")
		})
	}
}
