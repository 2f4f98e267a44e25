package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "procmon"

// Metrics owns a private Prometheus registry holding the sampled values,
// cycle outcomes and HTTP request counters, plus the Go and process
// collectors.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	samples        *prometheus.GaugeVec
	cycles         *prometheus.CounterVec
	cycleDuration  *prometheus.HistogramVec
	activeRequests prometheus.Gauge
	requests       *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		samples: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "sample_value",
			Help:      "Latest value recorded by a sampler, keyed by metric name.",
		}, []string{"metric"}),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "sampling_cycles_total",
			Help:      "Sampler invocations by sampler and outcome.",
		}, []string{"sampler", "outcome"}),
		cycleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "sampling_duration_seconds",
			Help:      "Wall time of sampler invocations.",
			Buckets:   []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1},
		}, []string{"sampler"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "active_requests",
			Help:      "HTTP requests currently being served.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "requests_total",
			Help:      "HTTP requests served, by path and status code.",
		}, []string{"path", "code"}),
	}
	m.registry.MustRegister(
		m.samples,
		m.cycles,
		m.cycleDuration,
		m.activeRequests,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
	return m
}

// Record sets the gauge of name to value.
func (m *Metrics) Record(name string, value float64) {
	m.samples.WithLabelValues(name).Set(value)
}

// ObserveCycle counts one sampler invocation.
func (m *Metrics) ObserveCycle(sampler, outcome string, elapsed time.Duration) {
	m.cycles.WithLabelValues(sampler, outcome).Inc()
	m.cycleDuration.WithLabelValues(sampler).Observe(elapsed.Seconds())
}

// IncrementActiveRequests marks the start of an HTTP request.
func (m *Metrics) IncrementActiveRequests() { m.activeRequests.Inc() }

// DecrementActiveRequests marks the end of an HTTP request.
func (m *Metrics) DecrementActiveRequests() { m.activeRequests.Dec() }

// ObserveRequest counts a served HTTP request.
func (m *Metrics) ObserveRequest(path string, code int) {
	m.requests.WithLabelValues(path, strconv.Itoa(code)).Inc()
}

// WritePrometheus writes the registry in the Prometheus exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

// Handler returns the exposition handler.
func (m *Metrics) Handler() http.Handler { return m.handler }

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
