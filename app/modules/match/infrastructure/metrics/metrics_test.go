package matchmetrics

import (
	"context"
	"testing"

	matchdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/match/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheus(reg).(*prometheusMetrics)
	ctx := context.Background()

	m.RecordRally(ctx, matchdomain.SideHome, matchdomain.ResultKill)
	m.RecordRally(ctx, matchdomain.SideHome, matchdomain.ResultKill)
	m.RecordBatchPersisted(ctx, 5)
	m.RecordBatchRequeued(ctx, 2)
	m.SetActiveMatches(ctx, 3)
	m.RecordOperationAttempt(ctx, "AddPoint", "MatchService")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.rallies.WithLabelValues("home", "kill")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.batchRecords.WithLabelValues("persisted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.batchRecords.WithLabelValues("requeued")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.activeSessions))
}
