package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ummah_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ummah_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ActiveWebSockets is the gauge of active WebSocket connections.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ummah_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// EngagementEventsPublished counts published realtime engagement events by type.
	EngagementEventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ummah_engagement_events_published_total",
		Help: "Total engagement events published to the change feed by type",
	}, []string{"event_type"})

	// CounterRecounts counts full counter recomputations by trigger.
	CounterRecounts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ummah_counter_recounts_total",
		Help: "Total post counter recount passes by trigger",
	}, []string{"trigger"})

	// WebSocketBackpressureDrops counts messages dropped because a client's
	// send buffer was full or closed.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ummah_websocket_backpressure_drops_total",
		Help: "Messages dropped due to websocket client backpressure",
	}, []string{"hub", "reason"})

	// ReactionTransitions counts reaction ledger transitions by kind.
	ReactionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ummah_reaction_transitions_total",
		Help: "Reaction ledger transitions by kind (insert, toggle_off, replace, clear)",
	}, []string{"kind"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
