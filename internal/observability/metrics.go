package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments shared by all five services.
// A given service only touches the subset relevant to it (e.g. Edge never
// increments saga metrics); unused vectors simply stay at zero.
type Metrics struct {
	// Ledger / Edge
	OrdersAccepted    *prometheus.CounterVec // status: accepted, duplicate, rejected
	LedgerWriteErrors *prometheus.CounterVec

	// Outbox
	OutboxEventsClaimed  *prometheus.CounterVec
	OutboxEventsPublished *prometheus.CounterVec
	OutboxEventsFailed    *prometheus.CounterVec
	OutboxBacklog         prometheus.Gauge

	// Saga
	SagaStepDuration   *prometheus.HistogramVec // step, outcome
	SagaOutcomes       *prometheus.CounterVec   // outcome: completed, failed, compensated
	SagaRetriesTotal   *prometheus.CounterVec
	CompensationFailed *prometheus.CounterVec

	// Inventory
	ReservationsTotal  *prometheus.CounterVec // result: reserved, insufficient_stock
	StockAdjustments   *prometheus.CounterVec

	// Payments
	AuthorizationsTotal *prometheus.CounterVec // result: approved, declined_or_error
	GatewayLatency      *prometheus.HistogramVec
	PaymentCacheHits    *prometheus.CounterVec

	// Database (shared)
	DatabaseOperationDuration *prometheus.HistogramVec
	DatabaseErrors            *prometheus.CounterVec
}

// NewMetrics registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry registers metrics with a caller-supplied registry,
// used by tests to avoid colliding with the global one.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		OrdersAccepted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderflow_orders_accepted_total",
				Help: "Total number of order submissions processed by the edge service",
			},
			[]string{"status"},
		),
		LedgerWriteErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderflow_ledger_write_errors_total",
				Help: "Total number of failed ledger writes",
			},
			[]string{"operation"},
		),
		OutboxEventsClaimed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderflow_outbox_events_claimed_total",
				Help: "Total number of outbox events claimed by a poller",
			},
			[]string{"event_type"},
		),
		OutboxEventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderflow_outbox_events_published_total",
				Help: "Total number of outbox events published to the analytics fan-out",
			},
			[]string{"event_type"},
		),
		OutboxEventsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderflow_outbox_events_failed_total",
				Help: "Total number of outbox events that exhausted retries",
			},
			[]string{"event_type"},
		),
		OutboxBacklog: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "orderflow_outbox_backlog",
				Help: "Number of outbox events currently in PENDING state",
			},
		),
		SagaStepDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orderflow_saga_step_duration_seconds",
				Help:    "Duration of individual saga steps",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"step", "outcome"},
		),
		SagaOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderflow_saga_outcomes_total",
				Help: "Total number of saga executions by terminal outcome",
			},
			[]string{"outcome"},
		),
		SagaRetriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderflow_saga_retries_total",
				Help: "Total number of saga step retries scheduled",
			},
			[]string{"step"},
		),
		CompensationFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderflow_compensation_failed_total",
				Help: "Total number of compensation steps that could not be undone",
			},
			[]string{"step"},
		),
		ReservationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderflow_reservations_total",
				Help: "Total number of stock reservation attempts",
			},
			[]string{"result"},
		),
		StockAdjustments: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderflow_stock_adjustments_total",
				Help: "Total number of stock ledger adjustments",
			},
			[]string{"reason"},
		),
		AuthorizationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderflow_authorizations_total",
				Help: "Total number of payment authorization attempts",
			},
			[]string{"result"},
		),
		GatewayLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orderflow_gateway_latency_seconds",
				Help:    "Observed latency of the payment gateway adapter",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		PaymentCacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderflow_payment_cache_hits_total",
				Help: "Total number of Redis cache hits/misses in front of the authorizations table",
			},
			[]string{"result"},
		),
		DatabaseOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orderflow_database_operation_duration_seconds",
				Help:    "Duration of database operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		DatabaseErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderflow_database_errors_total",
				Help: "Total number of database errors",
			},
			[]string{"operation", "error_type"},
		),
	}
}
