// Package metrics prometheus-коллекторы сервиса: HTTP, БД и доменные счетчики.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор коллекторов сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration *prometheus.HistogramVec
	DBConnections   *prometheus.GaugeVec

	// Домен
	BookingsExpiredTotal prometheus.Counter
	SweepFailuresTotal   prometheus.Counter
}

// New регистрирует и возвращает коллекторы для указанного сервиса
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"operation"}),

		DBConnections: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state",
			ConstLabels: constLabels,
		}, []string{"state"}),

		BookingsExpiredTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "bookings_expired_total",
			Help:        "Total number of bookings cancelled by the auto-expiry sweep",
			ConstLabels: constLabels,
		}),

		SweepFailuresTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "expiry_sweep_failures_total",
			Help:        "Total number of failed auto-expiry sweep runs",
			ConstLabels: constLabels,
		}),
	}
}

// ObserveExpired учитывает отмененные очисткой бронирования
func (m *Metrics) ObserveExpired(count int) {
	m.BookingsExpiredTotal.Add(float64(count))
}

// ObserveSweepFailure учитывает неуспешный проход очистки
func (m *Metrics) ObserveSweepFailure() {
	m.SweepFailuresTotal.Inc()
}
