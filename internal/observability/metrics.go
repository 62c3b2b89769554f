package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records repository call latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "marketplace_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PersistenceFaults counts classified persistence faults by table and fault kind.
	PersistenceFaults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_persistence_faults_total",
		Help: "Total number of classified persistence faults",
	}, []string{"table", "fault"})

	// ValidationFailures counts rejected payloads per entity.
	ValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_validation_failures_total",
		Help: "Total number of payloads rejected by validation",
	}, []string{"entity"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
