package eventbus

import (
	"context"
	"fmt"

	matchevents "github.com/Black-And-White-Club/volley-analyst/app/modules/match/events"
)

// StreamConfig names a stream and the subjects it captures.
type StreamConfig struct {
	Name     string
	Subjects []string
}

// Streams lists the streams the application publishes into.
var Streams = []StreamConfig{
	{Name: matchevents.StreamName, Subjects: []string{matchevents.StreamSubjects}},
}

// InitializeStreams ensures every stream in Streams exists.
func InitializeStreams(ctx context.Context, bus EventBus) error {
	for _, s := range Streams {
		if err := bus.EnsureStream(ctx, s.Name, s.Subjects...); err != nil {
			return fmt.Errorf("initialize stream %s: %w", s.Name, err)
		}
	}
	return nil
}
