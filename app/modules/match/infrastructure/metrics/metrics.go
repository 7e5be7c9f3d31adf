// Package matchmetrics exports match engine counters to Prometheus.
package matchmetrics

import (
	"context"

	matchservice "github.com/Black-And-White-Club/volley-analyst/app/modules/match/application"
	matchdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/match/domain"
	"github.com/Black-And-White-Club/volley-analyst/app/observability"
	"github.com/prometheus/client_golang/prometheus"
)

type prometheusMetrics struct {
	observability.OperationMetrics
	rallies        *prometheus.CounterVec
	batchRecords   *prometheus.CounterVec
	activeSessions prometheus.Gauge
}

// NewPrometheus registers the match metrics on reg.
func NewPrometheus(reg prometheus.Registerer) matchservice.Metrics {
	m := &prometheusMetrics{
		OperationMetrics: observability.NewOperationMetrics(reg, "match"),
		rallies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "volley", Subsystem: "match", Name: "rallies_recorded_total",
			Help: "Rally records appended, by recording side and stored result.",
		}, []string{"side", "result"}),
		batchRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "volley", Subsystem: "match", Name: "batch_records_total",
			Help: "Flushed rally records, by outcome (persisted or requeued).",
		}, []string{"outcome"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "volley", Subsystem: "match", Name: "active_sessions",
			Help: "Open match sessions.",
		}),
	}
	reg.MustRegister(m.rallies, m.batchRecords, m.activeSessions)
	return m
}

func (m *prometheusMetrics) RecordRally(_ context.Context, side matchdomain.Side, result matchdomain.Result) {
	m.rallies.WithLabelValues(string(side), string(result)).Inc()
}

func (m *prometheusMetrics) RecordBatchPersisted(_ context.Context, size int) {
	m.batchRecords.WithLabelValues("persisted").Add(float64(size))
}

func (m *prometheusMetrics) RecordBatchRequeued(_ context.Context, size int) {
	m.batchRecords.WithLabelValues("requeued").Add(float64(size))
}

func (m *prometheusMetrics) SetActiveMatches(_ context.Context, n int) {
	m.activeSessions.Set(float64(n))
}
