package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Имена операций мутаций для label "operation".
const (
	OpCreateCustomer      = "create_customer"
	OpBulkCreateCustomers = "bulk_create_customers"
	OpCreateProduct       = "create_product"
	OpCreateOrder         = "create_order"
)

// MutationMetrics содержит метрики для операций мутации CRM.
type MutationMetrics struct {
	// Счётчики исходов по операциям
	succeeded *prometheus.CounterVec
	failed    *prometheus.CounterVec

	// Гистограмма времени выполнения операций
	duration *prometheus.HistogramVec

	// Счётчики строк bulk-импорта
	bulkItemsCreated prometheus.Counter
	bulkItemsFailed  prometheus.Counter
}

// NewMutationMetrics создаёт новый экземпляр метрик мутаций.
func NewMutationMetrics() *MutationMetrics {
	return newMutationMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newMutationMetricsWithRegisterer(registerer prometheus.Registerer) *MutationMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &MutationMetrics{
		succeeded: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "crm_mutation_succeeded_total",
			Help: "Total number of successful mutation operations",
		}, []string{"operation"}),
		failed: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "crm_mutation_failed_total",
			Help: "Total number of failed mutation operations",
		}, []string{"operation"}),
		duration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "crm_mutation_duration_seconds",
			Help:    "Duration of mutation operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"operation"}),
		bulkItemsCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "crm_bulk_customers_created_total",
			Help: "Total number of customers created via bulk import",
		}),
		bulkItemsFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "crm_bulk_customers_failed_total",
			Help: "Total number of bulk import rows rejected",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordSuccess фиксирует успешную операцию и её длительность.
func (m *MutationMetrics) RecordSuccess(operation string, duration time.Duration) {
	m.succeeded.WithLabelValues(operation).Inc()
	m.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordFailure фиксирует неуспешную операцию и её длительность.
func (m *MutationMetrics) RecordFailure(operation string, duration time.Duration) {
	m.failed.WithLabelValues(operation).Inc()
	m.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordBulkItems фиксирует итог bulk-импорта по строкам.
func (m *MutationMetrics) RecordBulkItems(created, failed int) {
	m.bulkItemsCreated.Add(float64(created))
	m.bulkItemsFailed.Add(float64(failed))
}
