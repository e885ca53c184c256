package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeStale = "discarded"
)

// Metrics holds the dashboard's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	apiRequests  *prometheus.CounterVec
	apiDuration  *prometheus.HistogramVec
	fallbacks    *prometheus.CounterVec
	polls        *prometheus.CounterVec
	historySize  prometheus.Gauge
	controls     *prometheus.CounterVec
	publishes    *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sensor_api_requests_total",
			Help: "Requests sent to the sensor API by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		apiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sensor_api_request_duration_seconds",
			Help:    "Sensor API request latency by endpoint.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sensor_fallback_fetches_total",
			Help: "Single-metric fallback fetches by field and outcome.",
		}, []string{"field", "outcome"}),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_polls_total",
			Help: "Chart polling ticks by outcome.",
		}, []string{"outcome"}),
		historySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_history_readings",
			Help: "Readings currently held in the chart history.",
		}),
		controls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_control_requests_total",
			Help: "Actuator control requests by actuator and outcome.",
		}, []string{"actuator", "outcome"}),
		publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_reading_publishes_total",
			Help: "Readings forwarded to publishers by sink and outcome.",
		}, []string{"sink", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		m.apiRequests,
		m.apiDuration,
		m.fallbacks,
		m.polls,
		m.historySize,
		m.controls,
		m.publishes,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}

// ObserveAPI records one sensor API request.
func (m *Metrics) ObserveAPI(endpoint string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(endpoint, outcome(err)).Inc()
	m.apiDuration.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
}

// Fallback records a single-metric fallback fetch.
func (m *Metrics) Fallback(field string, err error) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(field, outcome(err)).Inc()
}

// Poll records a chart polling tick.
func (m *Metrics) Poll(result string) {
	if m == nil {
		return
	}
	m.polls.WithLabelValues(result).Inc()
}

// HistorySize sets the current history length.
func (m *Metrics) HistorySize(n int) {
	if m == nil {
		return
	}
	m.historySize.Set(float64(n))
}

// Control records an actuator request.
func (m *Metrics) Control(actuator string, err error) {
	if m == nil {
		return
	}
	m.controls.WithLabelValues(actuator, outcome(err)).Inc()
}

// Publish records a reading hand-off to a publisher.
func (m *Metrics) Publish(sink string, err error) {
	if m == nil {
		return
	}
	m.publishes.WithLabelValues(sink, outcome(err)).Inc()
}

// GinMiddleware records request counts and latency per matched route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
