// Package eventbus connects watermill routers to NATS JetStream.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/Black-And-White-Club/volley-analyst/pkg/attr"
)

// EventBus publishes and subscribes watermill messages and owns the streams
// behind them.
type EventBus interface {
	message.Publisher
	message.Subscriber
	// EnsureStream creates the stream or adds missing subjects to it.
	EnsureStream(ctx context.Context, name string, subjects ...string) error
}

// natsEventBus implements EventBus on JetStream.
type natsEventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	js         jetstream.JetStream
	natsConn   *nc.Conn
	logger     *slog.Logger

	streamMu       sync.Mutex
	createdStreams map[string]bool
}

// Options tunes NewEventBus.
type Options struct {
	// QueueGroup load-balances subscriptions between replicas.
	QueueGroup string
	// AckWait is how long a handler may hold a message before redelivery.
	AckWait time.Duration
}

// NewEventBus connects to NATS and builds JetStream-backed watermill
// publisher and subscriber.
func NewEventBus(ctx context.Context, natsURL string, opts Options, logger *slog.Logger) (EventBus, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.QueueGroup == "" {
		opts.QueueGroup = "volley-analyst"
	}
	if opts.AckWait <= 0 {
		opts.AckWait = 30 * time.Second
	}

	natsOptions := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.MaxReconnects(-1),
		nc.ReconnectWait(2 * time.Second),
	}

	natsConn, err := nc.Connect(natsURL, natsOptions...)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to connect to NATS", attr.Error(err))
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(natsConn)
	if err != nil {
		natsConn.Close()
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}

	wmLogger := watermill.NewSlogLogger(logger)
	marshaler := &nats.NATSMarshaler{}

	publisher, err := nats.NewPublisher(nats.PublisherConfig{
		URL:         natsURL,
		NatsOptions: natsOptions,
		Marshaler:   marshaler,
		JetStream: nats.JetStreamConfig{
			AutoProvision: false,
			TrackMsgId:    true,
		},
	}, wmLogger)
	if err != nil {
		natsConn.Close()
		return nil, fmt.Errorf("failed to create watermill publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(nats.SubscriberConfig{
		URL:              natsURL,
		QueueGroupPrefix: opts.QueueGroup,
		SubscribersCount: 1,
		AckWaitTimeout:   opts.AckWait,
		CloseTimeout:     10 * time.Second,
		NatsOptions:      natsOptions,
		Unmarshaler:      marshaler,
		JetStream: nats.JetStreamConfig{
			AutoProvision: false,
			SubscribeOptions: []nc.SubOpt{
				nc.DeliverAll(),
				nc.AckExplicit(),
			},
			DurablePrefix:     opts.QueueGroup,
			DurableCalculator: DurableName,
		},
	}, wmLogger)
	if err != nil {
		publisher.Close()
		natsConn.Close()
		return nil, fmt.Errorf("failed to create watermill subscriber: %w", err)
	}

	return &natsEventBus{
		publisher:      publisher,
		subscriber:     subscriber,
		js:             js,
		natsConn:       natsConn,
		logger:         logger,
		createdStreams: make(map[string]bool),
	}, nil
}

// DurableName derives a JetStream-safe consumer name from a topic.
func DurableName(prefix, topic string) string {
	r := strings.NewReplacer(".", "_", "*", "any", ">", "all", " ", "_")
	if prefix == "" {
		return r.Replace(topic)
	}
	return r.Replace(prefix + "_" + topic)
}

func (eb *natsEventBus) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		if msg.UUID == "" {
			msg.UUID = watermill.NewUUID()
		}
	}
	if err := eb.publisher.Publish(topic, messages...); err != nil {
		eb.logger.Error("Failed to publish message", attr.String("topic", topic), attr.Error(err))
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

func (eb *natsEventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	eb.logger.InfoContext(ctx, "Subscribing to topic", attr.String("topic", topic))
	ch, err := eb.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	return ch, nil
}

func (eb *natsEventBus) EnsureStream(ctx context.Context, name string, subjects ...string) error {
	eb.streamMu.Lock()
	defer eb.streamMu.Unlock()

	if eb.createdStreams[name] {
		return nil
	}

	stream, err := eb.js.Stream(ctx, name)
	switch {
	case errors.Is(err, jetstream.ErrStreamNotFound):
		if _, err := eb.js.CreateStream(ctx, jetstream.StreamConfig{
			Name:     name,
			Subjects: subjects,
			Storage:  jetstream.FileStorage,
		}); err != nil {
			return fmt.Errorf("failed to create stream %s: %w", name, err)
		}
		eb.logger.InfoContext(ctx, "Stream created", attr.String("stream_name", name))
	case err != nil:
		return fmt.Errorf("failed to check if stream exists: %w", err)
	default:
		info, err := stream.Info(ctx)
		if err != nil {
			return fmt.Errorf("failed to get stream info: %w", err)
		}
		missing := missingSubjects(info.Config.Subjects, subjects)
		if len(missing) > 0 {
			info.Config.Subjects = append(info.Config.Subjects, missing...)
			if _, err := eb.js.UpdateStream(ctx, info.Config); err != nil {
				return fmt.Errorf("failed to update stream with new subjects: %w", err)
			}
			eb.logger.InfoContext(ctx, "Stream updated with new subjects",
				attr.String("stream_name", name),
				attr.Any("subjects", missing),
			)
		}
	}

	eb.createdStreams[name] = true
	return nil
}

// Close closes all NATS and watermill resources.
func (eb *natsEventBus) Close() error {
	var errs []error
	if err := eb.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	if err := eb.subscriber.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close subscriber: %w", err))
	}
	eb.natsConn.Close()
	return errors.Join(errs...)
}

func missingSubjects(existing, wanted []string) []string {
	have := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		have[s] = struct{}{}
	}
	var out []string
	for _, s := range wanted {
		if _, ok := have[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

// inMemoryEventBus runs the routers without a broker.
type inMemoryEventBus struct {
	*gochannel.GoChannel
}

// NewInMemory returns an EventBus backed by a watermill go channel. It is used
// when no NATS URL is configured and in tests.
func NewInMemory(logger *slog.Logger) EventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &inMemoryEventBus{
		GoChannel: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
		}, watermill.NewSlogLogger(logger)),
	}
}

func (b *inMemoryEventBus) EnsureStream(context.Context, string, ...string) error { return nil }
