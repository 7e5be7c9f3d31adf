package matchservice

import (
	"context"

	matchdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/match/domain"
	"github.com/Black-And-White-Club/volley-analyst/app/observability"
)

var _ Service = (*MatchService)(nil)

type noopMetrics struct {
	observability.NoopOperationMetrics
}

func (noopMetrics) RecordRally(context.Context, matchdomain.Side, matchdomain.Result) {}
func (noopMetrics) RecordBatchPersisted(context.Context, int)                         {}
func (noopMetrics) RecordBatchRequeued(context.Context, int)                          {}
func (noopMetrics) SetActiveMatches(context.Context, int)                             {}
