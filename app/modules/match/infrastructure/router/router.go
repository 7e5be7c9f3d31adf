package matchrouter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/Black-And-White-Club/volley-analyst/app/eventbus"
	matchevents "github.com/Black-And-White-Club/volley-analyst/app/modules/match/events"
	matchhandlers "github.com/Black-And-White-Club/volley-analyst/app/modules/match/infrastructure/handlers"
	"github.com/Black-And-White-Club/volley-analyst/pkg/attr"
	scoped "github.com/Black-And-White-Club/volley-analyst/pkg/eventbus"
	"github.com/Black-And-White-Club/volley-analyst/pkg/handlerwrapper"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// MatchRouter registers the match module's watermill handlers.
type MatchRouter struct {
	logger         *slog.Logger
	Router         *message.Router
	subscriber     eventbus.EventBus
	publisher      eventbus.EventBus
	tracer         trace.Tracer
	metricsBuilder *metrics.PrometheusMetricsBuilder
}

// NewMatchRouter creates a MatchRouter. Router metrics are skipped when
// registry is nil or APP_ENV=test.
func NewMatchRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	tracer trace.Tracer,
	registry *prometheus.Registry,
) *MatchRouter {
	if logger == nil {
		logger = slog.Default()
	}
	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if registry != nil && os.Getenv(TestEnvironmentFlag) != TestEnvironmentValue {
		builder := metrics.NewPrometheusMetricsBuilder(registry, "volley", "match")
		metricsBuilder = &builder
	}
	return &MatchRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		publisher:      publisher,
		tracer:         tracer,
		metricsBuilder: metricsBuilder,
	}
}

// Configure adds middleware and registers handlers.
func (r *MatchRouter) Configure(_ context.Context, handlers matchhandlers.Handlers) error {
	if r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
			Multiplier:      2,
		}.Middleware,
	)

	registerHandler(r, matchevents.RallyObservedV1, handlers.HandleRallyObserved)
	r.logger.Info("Match module handlers registered",
		attr.String("rally_observed_subject", matchevents.RallyObservedV1),
	)
	return nil
}

// registerHandler wires one topic to a typed handler and publishes whatever
// it returns on the topic carried in each message's metadata.
func registerHandler[T any](
	r *MatchRouter,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "match." + topic
	wrapped := handlerwrapper.WrapTransformingTyped(handlerName, r.logger, r.tracer, handler)

	r.Router.AddHandler(
		handlerName,
		topic,
		r.subscriber,
		"",
		nil,
		func(msg *message.Message) ([]*message.Message, error) {
			messages, err := wrapped(msg)
			if err != nil {
				r.logger.Error("Error processing message",
					attr.String("handler", handlerName),
					attr.String("message_id", msg.UUID),
					attr.Error(err),
				)
				return nil, err
			}
			for _, m := range messages {
				publishTopic, err := PublishTopic(m)
				if err != nil {
					r.logger.Error("Router failed to resolve publish topic, message dropped",
						attr.String("handler", handlerName),
						attr.String("msg_uuid", m.UUID),
						attr.String("correlation_id", middleware.MessageCorrelationID(m)),
						attr.Error(err),
					)
					continue
				}
				if err := r.publisher.Publish(publishTopic, m); err != nil {
					return nil, fmt.Errorf("failed to publish to %s: %w", publishTopic, err)
				}
			}
			return nil, nil
		},
	)
}

// PublishTopic resolves the subject of an outgoing message. Messages that
// carry a match id are scoped to that match.
func PublishTopic(m *message.Message) (string, error) {
	topic := m.Metadata.Get(handlerwrapper.TopicMetadataKey)
	if topic == "" {
		return "", fmt.Errorf("message has no topic metadata")
	}
	if matchID := m.Metadata.Get(scoped.MatchIDMetadataKey); matchID != "" {
		return scoped.ScopedTopic(topic, matchID)
	}
	return topic, nil
}

// Close shuts down the router.
func (r *MatchRouter) Close() error {
	return r.Router.Close()
}
