package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private prometheus registry for the API process.
type Metrics struct {
	registry      *prometheus.Registry
	apiRequests   *prometheus.CounterVec
	apiLatency    *prometheus.HistogramVec
	apiInflight   prometheus.Gauge
	codesIssued   prometheus.Counter
	tokensIssued  prometheus.Counter
	reviewsPosted prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "yamdb",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "yamdb",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "yamdb",
			Name:      "http_requests_inflight",
			Help:      "HTTP requests currently being served.",
		}),
		codesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "yamdb",
			Name:      "confirmation_codes_issued_total",
			Help:      "Confirmation codes generated and emailed.",
		}),
		tokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "yamdb",
			Name:      "access_tokens_issued_total",
			Help:      "Access tokens issued for confirmed codes.",
		}),
		reviewsPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "yamdb",
			Name:      "reviews_posted_total",
			Help:      "Reviews created.",
		}),
	}
	reg.MustRegister(
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.codesIssued,
		m.tokensIssued,
		m.reviewsPosted,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) ApiInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) ApiInflightDec() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

func (m *Metrics) ObserveAPI(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) IncCodesIssued() {
	if m != nil {
		m.codesIssued.Inc()
	}
}

func (m *Metrics) IncTokensIssued() {
	if m != nil {
		m.tokensIssued.Inc()
	}
}

func (m *Metrics) IncReviewsPosted() {
	if m != nil {
		m.reviewsPosted.Inc()
	}
}
