package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Event stream metrics, incremented as outbox events publish
	VerificationsCreated prometheus.Counter
	SalesCreated         prometheus.Counter
	SalesVoided          prometheus.Counter
	PaymentsCreated      prometheus.Counter
	SpendingsCreated     prometheus.Counter
	SpendingsVoided      prometheus.Counter
	EventsPublished      *prometheus.CounterVec

	// Balance metrics
	BalanceComputations prometheus.Counter
	BalanceDuration     prometheus.Histogram

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec

	// Database metrics
	DBConnections prometheus.Gauge
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		VerificationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_verifications_created_total",
			Help: "Total number of balance verifications recorded",
		}),
		SalesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_sales_created_total",
			Help: "Total number of sales recorded",
		}),
		SalesVoided: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_sales_voided_total",
			Help: "Total number of sales voided",
		}),
		PaymentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_payments_created_total",
			Help: "Total number of payments recorded",
		}),
		SpendingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_spendings_created_total",
			Help: "Total number of spendings recorded",
		}),
		SpendingsVoided: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_spendings_voided_total",
			Help: "Total number of spendings voided",
		}),
		EventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbook_events_published_total",
				Help: "Total outbox events published",
			},
			[]string{"event_type"},
		),

		BalanceComputations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_balance_computations_total",
			Help: "Total number of ledger computations",
		}),
		BalanceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cashbook_balance_duration_seconds",
			Help:    "Duration of ledger computations",
			Buckets: prometheus.DefBuckets,
		}),

		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbook_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),

		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "cashbook_db_connections",
			Help: "Current number of database connections",
		}),
	}
}

// ObserveBalance records one ledger computation.
func (m *Metrics) ObserveBalance(d time.Duration) {
	m.BalanceComputations.Inc()
	m.BalanceDuration.Observe(d.Seconds())
}

// ObserveAuthAttempt records a login attempt. status is "success" or
// "failure".
func (m *Metrics) ObserveAuthAttempt(status string) {
	m.AuthAttempts.WithLabelValues(status).Inc()
}

// ObserveEvent bumps the counters for a published outbox event. eventType
// uses the domain "aggregate.action" form.
func (m *Metrics) ObserveEvent(eventType string) {
	m.EventsPublished.WithLabelValues(eventType).Inc()

	switch eventType {
	case "verification.created":
		m.VerificationsCreated.Inc()
	case "sale.created":
		m.SalesCreated.Inc()
	case "sale.voided":
		m.SalesVoided.Inc()
	case "payment.created":
		m.PaymentsCreated.Inc()
	case "spending.created":
		m.SpendingsCreated.Inc()
	case "spending.voided":
		m.SpendingsVoided.Inc()
	}
}
