// Package metrics provides Prometheus metrics for imager.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

var (
	// GenerationsTotal counts derivative generations by kind and outcome.
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imager",
			Name:      "generations_total",
			Help:      "Total number of derivative generations",
		},
		[]string{"kind", "status"},
	)

	// GenerationDuration measures how long a derivative takes to generate.
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "imager",
			Name:      "generation_duration_seconds",
			Help:      "Duration of derivative generations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// DeduplicatedTotal counts requests that joined a pending generation of the same key.
	DeduplicatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imager",
			Name:      "generations_deduplicated_total",
			Help:      "Total number of requests that joined a pending generation for the same key",
		},
		[]string{"kind"},
	)

	// CacheLookupsTotal counts derivative lookups by result.
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imager",
			Name:      "cache_lookups_total",
			Help:      "Total number of derivative cache lookups",
		},
		[]string{"result"},
	)

	// RejectedTotal counts tasks refused because the queue was full.
	RejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imager",
			Name:      "tasks_rejected_total",
			Help:      "Total number of generation tasks rejected by a full queue",
		},
		[]string{"kind"},
	)

	// QueueDepth tracks tasks waiting for a worker.
	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "imager",
			Name:      "queue_depth",
			Help:      "Number of generation tasks waiting for a worker",
		},
	)
)

// RecordGeneration records a finished generation.
func RecordGeneration(kind string, err error, duration time.Duration) {
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}

	GenerationsTotal.WithLabelValues(kind, status).Inc()
	GenerationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordCacheLookup records a derivative lookup.
func RecordCacheLookup(hit bool) {
	if hit {
		CacheLookupsTotal.WithLabelValues("hit").Inc()
		return
	}

	CacheLookupsTotal.WithLabelValues("miss").Inc()
}
