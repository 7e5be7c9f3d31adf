package matchhandlers

import (
	"context"

	matchevents "github.com/Black-And-White-Club/volley-analyst/app/modules/match/events"
	"github.com/Black-And-White-Club/volley-analyst/pkg/handlerwrapper"
)

// Handlers defines the event bus handlers of the match module.
type Handlers interface {
	// HandleRallyObserved records a classified rally.
	HandleRallyObserved(ctx context.Context, payload *matchevents.RallyObservedPayloadV1) ([]handlerwrapper.Result, error)
}
