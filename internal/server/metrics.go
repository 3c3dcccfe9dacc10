package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records request and assessment metrics on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	assessments     *prometheus.CounterVec
	scores          *prometheus.HistogramVec
}

// NewMetrics creates the collectors. Each call uses its own registry, so
// several servers can coexist in one process.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "preflight_http_requests_total",
				Help: "Total number of HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "preflight_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		assessments: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "preflight_assessments_total",
				Help: "Total number of artwork assessments by strategy and readiness",
			},
			[]string{"strategy", "ready"},
		),
		scores: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "preflight_assessment_score",
				Help:    "Distribution of print-readiness scores",
				Buckets: prometheus.LinearBuckets(10, 10, 10),
			},
			[]string{"strategy"},
		),
	}
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// ObserveAssessment records one scored artwork.
func (m *Metrics) ObserveAssessment(strategy string, score int, ready bool) {
	m.assessments.WithLabelValues(strategy, strconv.FormatBool(ready)).Inc()
	m.scores.WithLabelValues(strategy).Observe(float64(score))
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
