package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "arcmarket"

type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Business Metrics
	ChargesCreated    *prometheus.CounterVec
	WebhookEvents     *prometheus.CounterVec
	CreditsGranted    prometheus.Counter
	StatusChecks      *prometheus.CounterVec
	GatewayRequests   *prometheus.CounterVec
	ReconcileMessages *prometheus.CounterVec

	// Database Metrics
	DBConnectionsInUse prometheus.Gauge
	DBConnectionsIdle  prometheus.Gauge
	DBQueryDuration    *prometheus.HistogramVec
	DBQueriesTotal     *prometheus.CounterVec
	DBConnectionErrors prometheus.Counter

	// System Metrics
	ServiceUptime    prometheus.Gauge
	ServiceVersion   *prometheus.GaugeVec
	Goroutines       prometheus.Gauge
	MemoryUsageBytes *prometheus.GaugeVec
	GCCycles         prometheus.Gauge
	GCPauseSeconds   prometheus.Gauge

	// Validation Metrics
	ValidationErrors   *prometheus.CounterVec
	ValidationDuration *prometheus.HistogramVec
}

// NewMetrics registers every collector on reg. Binaries pass
// prometheus.DefaultRegisterer, tests a fresh registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being served",
			},
		),
		HTTPResponseSizeBytes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "Size of HTTP responses in bytes",
				Buckets:   []float64{100, 1000, 10_000, 100_000, 1_000_000},
			},
			[]string{"method", "path", "status_code"},
		),

		ChargesCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "topup_charges_created_total",
				Help:      "Charges requested from the payment gateway",
			},
			[]string{"status"},
		),
		WebhookEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "topup_webhook_events_total",
				Help:      "Webhook events by processing outcome",
			},
			[]string{"outcome"},
		),
		CreditsGranted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "topup_credits_granted_total",
				Help:      "Credits added to user balances",
			},
		),
		StatusChecks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "topup_status_checks_total",
				Help:      "Charge status checks by reported local status",
			},
			[]string{"local_status"},
		),
		GatewayRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "omise_requests_total",
				Help:      "Payment gateway calls by operation and result",
			},
			[]string{"operation", "status"},
		),
		ReconcileMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "topup_reconcile_messages_total",
				Help:      "Reconcile queue messages by result",
			},
			[]string{"result"},
		),

		DBConnectionsInUse: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connections_in_use",
				Help:      "Number of database connections currently in use",
			},
		),
		DBConnectionsIdle: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connections_idle",
				Help:      "Number of idle database connections",
			},
		),
		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_query_duration_seconds",
				Help:      "Duration of database queries in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"operation", "table"},
		),
		DBQueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_queries_total",
				Help:      "Total number of database queries",
			},
			[]string{"operation", "table", "status"},
		),
		DBConnectionErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_connection_errors_total",
				Help:      "Total number of database connection errors",
			},
		),

		ServiceUptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "service_uptime_seconds",
				Help:      "Service uptime in seconds",
			},
		),
		ServiceVersion: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "service_version_info",
				Help:      "Service version information (labels: version, commit, build_date)",
			},
			[]string{"version", "commit", "build_date"},
		),
		Goroutines: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "goroutines",
				Help:      "Number of goroutines currently running",
			},
		),
		MemoryUsageBytes: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "memory_usage_bytes",
				Help:      "Memory usage in bytes",
			},
			[]string{"type"},
		),
		GCCycles: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "gc_cycles",
				Help:      "Completed garbage collection cycles",
			},
		),
		GCPauseSeconds: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "gc_pause_seconds",
				Help:      "Cumulative garbage collection pause time",
			},
		),

		ValidationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_errors_total",
				Help:      "Total number of validation errors",
			},
			[]string{"field", "tag"},
		),
		ValidationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "validation_duration_seconds",
				Help:      "Duration of validation operations in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"endpoint"},
		),
	}
}

// --- Recording Methods ---

func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration, responseSize int) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration.Seconds())
	m.HTTPResponseSizeBytes.WithLabelValues(method, path, statusCode).Observe(float64(responseSize))
}

func (m *Metrics) RecordChargeCreated(status string) {
	m.ChargesCreated.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordWebhookEvent(outcome string) {
	m.WebhookEvents.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordCreditsGranted(credits int64) {
	m.CreditsGranted.Add(float64(credits))
}

func (m *Metrics) RecordStatusCheck(localStatus string) {
	m.StatusChecks.WithLabelValues(localStatus).Inc()
}

func (m *Metrics) RecordGatewayRequest(operation, status string) {
	m.GatewayRequests.WithLabelValues(operation, status).Inc()
}

func (m *Metrics) RecordReconcileMessage(result string) {
	m.ReconcileMessages.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordDBQuery(operation, table, status string, duration time.Duration) {
	m.DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

func (m *Metrics) RecordDBConnectionError() {
	m.DBConnectionErrors.Inc()
}

func (m *Metrics) RecordValidationError(field, tag string) {
	m.ValidationErrors.WithLabelValues(field, tag).Inc()
}

func (m *Metrics) RecordValidationDuration(endpoint string, duration time.Duration) {
	m.ValidationDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// UpdateSystemMetrics updates system-level metrics (goroutines, uptime, memory).
func (m *Metrics) UpdateSystemMetrics(uptime time.Duration, memStats *runtime.MemStats) {
	m.ServiceUptime.Set(uptime.Seconds())
	m.Goroutines.Set(float64(runtime.NumGoroutine()))

	m.MemoryUsageBytes.WithLabelValues("alloc").Set(float64(memStats.Alloc))
	m.MemoryUsageBytes.WithLabelValues("sys").Set(float64(memStats.Sys))
	m.MemoryUsageBytes.WithLabelValues("heap_alloc").Set(float64(memStats.HeapAlloc))
	m.MemoryUsageBytes.WithLabelValues("heap_inuse").Set(float64(memStats.HeapInuse))

	m.GCCycles.Set(float64(memStats.NumGC))
	m.GCPauseSeconds.Set(time.Duration(memStats.PauseTotalNs).Seconds())
}

func (m *Metrics) SetServiceVersion(version, commit, buildDate string) {
	m.ServiceVersion.WithLabelValues(version, commit, buildDate).Set(1)
}
