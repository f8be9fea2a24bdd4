// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysisRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sem_analysis_requests_total",
			Help: "Total number of campaign analyses by outcome",
		},
		[]string{"status"},
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sem_analysis_duration_seconds",
			Help:    "Duration of campaign analyses in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	KeywordsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sem_keywords_returned",
			Help:    "Number of keywords returned per analysis after volume filtering",
			Buckets: []float64{0, 6, 12, 24, 36, 60, 120},
		},
	)

	SeedFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sem_seed_extraction_fallbacks_total",
			Help: "Number of page scrapes that fell back to the default seed keywords",
		},
	)

	EventsPublishFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sem_events_publish_failed_total",
			Help: "Number of analysis events that could not be published",
		},
		[]string{"topic"},
	)
)
