package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор Prometheus метрик сервиса
// Каждый экземпляр держит собственный registry, поэтому New можно вызывать несколько раз (тесты)
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  prometheus.Gauge
	DBInUseConnections prometheus.Gauge
	DBIdleConnections  prometheus.Gauge
	DBWaitCount        prometheus.Gauge

	BookingsCreated   prometheus.Counter
	BookingConflicts  *prometheus.CounterVec
	StatusTransitions *prometheus.CounterVec
	SlotsGenerated    prometheus.Histogram
}

// New создает и регистрирует метрики с префиксом serviceName
func New(serviceName string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "db_query_duration_seconds",
			Help:      "Database query latency",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Name:      "db_open_connections",
			Help:      "Number of established connections",
		}),
		DBInUseConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Name:      "db_in_use_connections",
			Help:      "Number of connections currently in use",
		}),
		DBIdleConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Name:      "db_idle_connections",
			Help:      "Number of idle connections",
		}),
		DBWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Name:      "db_wait_count",
			Help:      "Total number of connections waited for",
		}),
		BookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "bookings_created_total",
			Help:      "Bookings successfully created",
		}),
		BookingConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "booking_conflicts_total",
			Help:      "Booking attempts rejected because the interval was taken",
		}, []string{"source"}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "booking_status_transitions_total",
			Help:      "Booking status transitions by target status",
		}, []string{"status"}),
		SlotsGenerated: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "available_slots_returned",
			Help:      "Number of available slots returned per query",
			Buckets:   []float64{0, 1, 2, 4, 8, 12, 18},
		}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.BookingsCreated,
		m.BookingConflicts,
		m.StatusTransitions,
		m.SlotsGenerated,
	)

	return m
}

// Handler возвращает HTTP handler для эндпоинта /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry возвращает registry (для тестов)
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Методы ниже безопасно вызывать на nil *Metrics (метрики выключены)

// ObserveHTTP фиксирует завершенный HTTP запрос
func (m *Metrics) ObserveHTTP(method, route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveQuery фиксирует длительность запроса к БД
func (m *Metrics) ObserveQuery(operation string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// BookingCreated увеличивает счетчик созданных бронирований
func (m *Metrics) BookingCreated() {
	if m == nil {
		return
	}
	m.BookingsCreated.Inc()
}

// BookingConflict увеличивает счетчик конфликтов; source - механизм, который поймал пересечение
func (m *Metrics) BookingConflict(source string) {
	if m == nil {
		return
	}
	m.BookingConflicts.WithLabelValues(source).Inc()
}

// StatusTransition увеличивает счетчик смен статуса
func (m *Metrics) StatusTransition(status string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(status).Inc()
}

// SlotsReturned фиксирует количество выданных слотов
func (m *Metrics) SlotsReturned(n int) {
	if m == nil {
		return
	}
	m.SlotsGenerated.Observe(float64(n))
}
