package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors. Each instance owns its
// registry so tests can build as many as they need.
type Metrics struct {
	Registry *prometheus.Registry

	ScoresComputed   *prometheus.CounterVec
	ScoreDuration    prometheus.Histogram
	FinalScore       prometheus.Histogram
	CacheLookups     *prometheus.CounterVec
	BatchItemsFailed prometheus.Counter
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ScoresComputed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ats_scores_computed_total",
				Help: "Total number of ATS scores computed",
			},
			[]string{"source"},
		),
		ScoreDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ats_score_duration_seconds",
			Help:    "Time spent computing one ATS score",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}),
		FinalScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ats_final_score",
			Help:    "Distribution of final ATS scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ats_cache_lookups_total",
				Help: "ATS score cache lookups by result",
			},
			[]string{"result"},
		),
		BatchItemsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ats_batch_items_failed_total",
			Help: "Applications whose batch scoring ended in the Error sentinel",
		}),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	m.Registry.MustRegister(
		m.ScoresComputed,
		m.ScoreDuration,
		m.FinalScore,
		m.CacheLookups,
		m.BatchItemsFailed,
		m.HTTPRequests,
		m.HTTPDuration,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveScore records one computed score.
func (m *Metrics) ObserveScore(source string, finalScore float64, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ScoresComputed.WithLabelValues(source).Inc()
	m.ScoreDuration.Observe(elapsed.Seconds())
	m.FinalScore.Observe(finalScore)
}

// ObserveCache records a cache hit, miss or error.
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveBatchFailure counts one failed batch item.
func (m *Metrics) ObserveBatchFailure() {
	if m == nil {
		return
	}
	m.BatchItemsFailed.Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
