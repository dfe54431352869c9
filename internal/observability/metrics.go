// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LedgerDecisions counts access-policy outcomes by action kind and
	// reason. Quota denials show up as reason="exhausted"; they are
	// expected traffic, not errors.
	LedgerDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "caerus_ledger_decisions_total",
		Help: "Total ledger access decisions by action kind and reason",
	}, []string{"action", "reason"})

	// ThreadTransitions counts Q&A thread status-change attempts by event
	// and outcome (applied, invalid, denied).
	ThreadTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "caerus_thread_transitions_total",
		Help: "Total Q&A thread transition attempts by event and outcome",
	}, []string{"event", "outcome"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "caerus_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "caerus_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// NotificationsPublished counts push payloads handed to the external
	// dispatcher channel, by kind.
	NotificationsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "caerus_notifications_published_total",
		Help: "Total notification payloads published by kind",
	}, []string{"kind"})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}
