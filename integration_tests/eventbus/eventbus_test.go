package eventbus_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Black-And-White-Club/volley-analyst/app/eventbus"
	matchevents "github.com/Black-And-White-Club/volley-analyst/app/modules/match/events"
	"github.com/Black-And-White-Club/volley-analyst/integration_tests/containers"
)

func TestNATSEventBus_PublishSubscribe(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		t.Skipf("NATS container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = natsContainer.Terminate(context.Background()) })

	bus, err := eventbus.NewEventBus(ctx, natsURL, eventbus.Options{QueueGroup: "it", AckWait: 5 * time.Second}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bus.Close() })

	require.NoError(t, eventbus.InitializeStreams(ctx, bus))
	// A second pass finds the stream already in place.
	require.NoError(t, eventbus.InitializeStreams(ctx, bus))

	messages, err := bus.Subscribe(ctx, matchevents.RallyObservedV1)
	require.NoError(t, err)

	msg := message.NewMessage(watermill.NewUUID(), []byte(`{"match_id":"m1"}`))
	msg.Metadata.Set("correlation_id", "corr-1")
	require.NoError(t, bus.Publish(matchevents.RallyObservedV1, msg))

	select {
	case got := <-messages:
		assert.Equal(t, msg.UUID, got.UUID)
		assert.JSONEq(t, `{"match_id":"m1"}`, string(got.Payload))
		assert.Equal(t, "corr-1", got.Metadata.Get("correlation_id"))
		got.Ack()
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}
}
