package observability

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quietspace_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by statement kind.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quietspace_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// LikeToggles counts like toggle operations by outcome (liked / unliked).
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quietspace_like_toggles_total",
		Help: "Total number of like toggle operations by outcome",
	}, []string{"outcome"})

	// CounterRecomputeFailures counts failed denormalized counter recomputes by counter name.
	CounterRecomputeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quietspace_counter_recompute_failures_total",
		Help: "Total number of failed likes/comments counter recomputes",
	}, []string{"counter"})

	// CounterSyncDrift counts posts whose stored counters disagreed with the relation tables during a sync.
	CounterSyncDrift = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quietspace_counter_sync_drift_total",
		Help: "Total number of posts with drifted counters corrected by sync",
	})

	// ImageUploads counts object storage uploads by kind and result.
	ImageUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quietspace_image_uploads_total",
		Help: "Total number of image uploads by kind and result",
	}, []string{"kind", "result"})

	// PlacesLookups counts outbound nearby-places lookups by result.
	PlacesLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quietspace_places_lookups_total",
		Help: "Total number of nearby places lookups by result",
	}, []string{"result"})
)

// ObserveQuery records the latency of a database statement. The operation
// label is the leading SQL keyword (select, insert, ...).
func ObserveQuery(sql string, elapsed time.Duration) {
	op := "other"
	if fields := strings.Fields(sql); len(fields) > 0 {
		switch kw := strings.ToLower(fields[0]); kw {
		case "select", "insert", "update", "delete":
			op = kw
		}
	}
	DatabaseQueryLatency.WithLabelValues(op).Observe(elapsed.Seconds())
}
