package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics prometheus-коллекторы сервиса
// Создаётся один раз при старте и передаётся в middleware и обёртки
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueriesTotal  *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec

	dbPoolOpen  *prometheus.GaugeVec
	dbPoolIdle  *prometheus.GaugeVec
	dbPoolInUse *prometheus.GaugeVec

	outboxPublishedTotal *prometheus.CounterVec
	outboxFailedTotal    *prometheus.CounterVec
	outboxPendingGauge   prometheus.Gauge
}

// New создает и регистрирует коллекторы в default registry
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		dbQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		dbPoolOpen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_open_connections",
			Help:        "Number of open connections in the pool",
			ConstLabels: constLabels,
		}, []string{"db"}),

		dbPoolIdle: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_idle_connections",
			Help:        "Number of idle connections in the pool",
			ConstLabels: constLabels,
		}, []string{"db"}),

		dbPoolInUse: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),

		outboxPublishedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "outbox_events_published_total",
			Help:        "Total number of outbox events published to the broker",
			ConstLabels: constLabels,
		}, []string{"event_type"}),

		outboxFailedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "outbox_events_failed_total",
			Help:        "Total number of outbox publish failures",
			ConstLabels: constLabels,
		}, []string{"event_type"}),

		outboxPendingGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "outbox_events_pending",
			Help:        "Number of committed events waiting for publication",
			ConstLabels: constLabels,
		}),
	}
}

// ObserveHTTPRequest записывает метрики HTTP запроса
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery записывает метрики запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.dbQueriesTotal.WithLabelValues(operation, status).Inc()
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetPoolStats обновляет gauge-метрики connection pool
func (m *Metrics) SetPoolStats(db string, stats sql.DBStats) {
	m.dbPoolOpen.WithLabelValues(db).Set(float64(stats.OpenConnections))
	m.dbPoolIdle.WithLabelValues(db).Set(float64(stats.Idle))
	m.dbPoolInUse.WithLabelValues(db).Set(float64(stats.InUse))
}

// IncOutboxPublished увеличивает счетчик опубликованных событий
func (m *Metrics) IncOutboxPublished(eventType string) {
	m.outboxPublishedTotal.WithLabelValues(eventType).Inc()
}

// IncOutboxFailed увеличивает счетчик неудачных публикаций
func (m *Metrics) IncOutboxFailed(eventType string) {
	m.outboxFailedTotal.WithLabelValues(eventType).Inc()
}

// SetOutboxPending обновляет количество неопубликованных событий
func (m *Metrics) SetOutboxPending(n int) {
	m.outboxPendingGauge.Set(float64(n))
}
