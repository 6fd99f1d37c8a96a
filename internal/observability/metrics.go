package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/selimozcann/urlrisk/internal/model"
)

const namespace = "urlrisk"

// Metrics holds the collectors updated by the HTTP layer.
type Metrics struct {
	registry *prometheus.Registry

	Verdicts *prometheus.CounterVec
	Rejected *prometheus.CounterVec
	Scores   prometheus.Histogram
}

// NewMetrics registers the service collectors, plus Go runtime and process
// collectors, on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdicts_total",
			Help:      "URLs scored, by risk level.",
		}, []string{"risk_level"}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_total",
			Help:      "Inputs rejected before scoring, by reason.",
		}, []string{"reason"}),
		Scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "score",
			Help:      "Distribution of aggregate risk scores.",
			Buckets:   []float64{0, 10, 20, 30, 45, 60, 80, 100, 150},
		}),
	}
	reg.MustRegister(
		m.Verdicts,
		m.Rejected,
		m.Scores,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe records a verdict. Failed verdicts count as rejections.
func (m *Metrics) Observe(v model.Verdict) {
	if v.Failed() {
		m.Rejected.WithLabelValues(v.ErrorMessage()).Inc()
		return
	}
	m.Verdicts.WithLabelValues(string(v.RiskLevel)).Inc()
	m.Scores.Observe(float64(v.Score))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
