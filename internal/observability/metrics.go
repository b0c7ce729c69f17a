package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	httpRequestsTotal   *prometheus.CounterVec
	httpLatencySeconds  *prometheus.HistogramVec
	httpErrorsTotal     *prometheus.CounterVec
	scoresComputed      prometheus.Counter
	scoredEventsCounter prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used for API observability.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scriba_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scriba_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scriba_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		scoresComputed = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scriba_scores_computed_total",
			Help: "Total number of transcripts scored.",
		})

		scoredEventsCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scriba_scored_events_published_total",
			Help: "Total number of scored-transcript events published.",
		})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, httpErrorsTotal, scoresComputed, scoredEventsCounter)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// ScoresComputedTotal exposes the counter for completed scoring runs.
func ScoresComputedTotal() prometheus.Counter {
	RegisterMetrics()
	return scoresComputed
}

// ScoredEventsPublishedTotal exposes the counter for published scored events.
func ScoredEventsPublishedTotal() prometheus.Counter {
	RegisterMetrics()
	return scoredEventsCounter
}
