package matchhandlers

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	matchservice "github.com/Black-And-White-Club/volley-analyst/app/modules/match/application"
	matchdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/match/domain"
	matchevents "github.com/Black-And-White-Club/volley-analyst/app/modules/match/events"
	"github.com/Black-And-White-Club/volley-analyst/pkg/attr"
	"github.com/Black-And-White-Club/volley-analyst/pkg/eventbus"
	"github.com/Black-And-White-Club/volley-analyst/pkg/handlerwrapper"
)

// MatchHandlers implements the Handlers interface.
type MatchHandlers struct {
	service matchservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewMatchHandlers creates a new MatchHandlers instance.
func NewMatchHandlers(
	service matchservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &MatchHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleRallyObserved records a rally reported by the classifier. Rejected
// rallies are answered on RallyRejectedV1 and acked; infrastructure errors
// are returned so the message is redelivered.
func (h *MatchHandlers) HandleRallyObserved(ctx context.Context, payload *matchevents.RallyObservedPayloadV1) ([]handlerwrapper.Result, error) {
	if h.tracer != nil {
		var span trace.Span
		ctx, span = h.tracer.Start(ctx, "MatchHandlers.HandleRallyObserved", trace.WithAttributes(
			attribute.String("match_id", payload.MatchID),
			attribute.String("event_id", payload.EventID),
		))
		defer span.End()
	}

	h.logger.InfoContext(ctx, "Rally observed",
		attr.ExtractCorrelationID(ctx),
		attr.MatchID(payload.MatchID),
		attr.String("event_id", payload.EventID),
		attr.String("source", payload.Source),
	)

	res, err := h.service.RecordRally(ctx, payload.MatchID, payload.Input())
	if err != nil {
		reason, rejected := rejectionReason(err)
		if !rejected {
			return nil, err
		}
		h.logger.WarnContext(ctx, "Rally rejected",
			attr.ExtractCorrelationID(ctx),
			attr.MatchID(payload.MatchID),
			attr.String("reason", reason),
			attr.Error(err),
		)
		return []handlerwrapper.Result{{
			Topic: matchevents.RallyRejectedV1,
			Payload: &matchevents.RallyRejectedPayloadV1{
				MatchID: payload.MatchID,
				EventID: payload.EventID,
				Reason:  reason,
				Error:   err.Error(),
			},
		}}, nil
	}

	if !res.Appended {
		h.logger.InfoContext(ctx, "Duplicate rally event ignored",
			attr.MatchID(payload.MatchID),
			attr.String("event_id", payload.EventID),
		)
		return nil, nil
	}

	return []handlerwrapper.Result{{
		Topic:    matchevents.MatchUpdatedV1,
		Payload:  matchevents.NewMatchUpdated(res.View),
		Metadata: map[string]string{eventbus.MatchIDMetadataKey: res.View.ID},
	}}, nil
}

func rejectionReason(err error) (string, bool) {
	switch {
	case errors.Is(err, matchservice.ErrMatchNotFound):
		return matchevents.ReasonNotFound, true
	case matchdomain.IsValidation(err):
		return matchevents.ReasonValidation, true
	case matchdomain.IsState(err):
		return matchevents.ReasonState, true
	default:
		return "", false
	}
}
