// Package eventbus holds topic helpers shared by publishers.
package eventbus

import (
	"fmt"
	"strings"

	"github.com/ThreeDotsLabs/watermill/message"
)

// MatchIDMetadataKey carries the match a message belongs to.
const MatchIDMetadataKey = "match_id"

// ScopedTopic appends matchID to baseTopic so scoreboards can subscribe to a
// single match:
//
//   - baseTopic: "volley.match.updated.v1"
//   - matchID:   "5f0c..."
//   - result:    "volley.match.updated.v1.5f0c..."
//
// Subscribing to "volley.match.updated.v1.*" still sees every match.
func ScopedTopic(baseTopic, matchID string) (string, error) {
	if matchID == "" {
		return "", fmt.Errorf("matchID cannot be empty for a match-scoped topic")
	}
	if strings.ContainsAny(matchID, ".*> ") {
		return "", fmt.Errorf("matchID %q is not a valid subject token", matchID)
	}
	return baseTopic + "." + matchID, nil
}

// PublishScoped publishes msg on the match-scoped form of baseTopic.
func PublishScoped(pub message.Publisher, baseTopic, matchID string, msg *message.Message) error {
	topic, err := ScopedTopic(baseTopic, matchID)
	if err != nil {
		return err
	}
	return pub.Publish(topic, msg)
}
