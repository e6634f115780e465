package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	evalRequestsTotal  *prometheus.CounterVec
	evalLatencySeconds *prometheus.HistogramVec
	evalErrorsTotal    *prometheus.CounterVec
	parsedScores       prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors for the evaluation API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		evalRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grader_requests_total",
			Help: "Total number of grader API requests served.",
		}, []string{"method", "route", "status"})

		evalLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "grader_latency_seconds",
			Help:    "Latency distribution for grader API requests.",
			Buckets: []float64{0.01, 0.05, 0.25, 1.0, 2.5, 5.0, 10.0, 30.0},
		}, []string{"method", "route"})

		evalErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grader_errors_total",
			Help: "Total number of error responses returned by the grader API.",
		}, []string{"method", "route", "status"})

		parsedScores = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "grader_parsed_scores",
			Help:    "Distribution of scores parsed from judgment texts.",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		})

		prometheus.MustRegister(evalRequestsTotal, evalLatencySeconds, evalErrorsTotal, parsedScores)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return evalRequestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return evalLatencySeconds
}

// Errors exposes the counter for error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return evalErrorsTotal
}

// ObserveScore records one parsed score in the distribution.
func ObserveScore(score int) {
	RegisterMetrics()
	parsedScores.Observe(float64(score))
}
