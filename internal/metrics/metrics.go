// Package metrics: счётчики Prometheus для HTTP и событий авторизации.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AuthRecorder: то, что нужно хендлерам авторизации.
type AuthRecorder interface {
	RecordAuthEvent(event, outcome string)
}

// HTTPRecorder: то, что нужно middleware.
type HTTPRecorder interface {
	RecordRequest(route, method string, status int, d time.Duration)
}

type Collector struct {
	requests   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	authEvents *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "HTTP-запросы по маршруту, методу и статусу",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "Время обработки HTTP-запроса",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_auth_events_total",
			Help: "Вход, запрос и сброс пароля по исходу",
		}, []string{"event", "outcome"}),
	}

	reg.MustRegister(c.requests, c.duration, c.authEvents)
	return c
}

func (c *Collector) RecordRequest(route, method string, status int, d time.Duration) {
	c.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(route, method).Observe(d.Seconds())
}

func (c *Collector) RecordAuthEvent(event, outcome string) {
	c.authEvents.WithLabelValues(event, outcome).Inc()
}

// Handler: /metrics.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop: для тестов и когда метрики не нужны.
type Nop struct{}

func (Nop) RecordAuthEvent(string, string) {}

func (Nop) RecordRequest(string, string, int, time.Duration) {}
