// Package eventevents defines topics and payloads published by the event
// lifecycle.
package eventevents

import (
	"time"

	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

const (
	EventPublishedV1 = "event.published.v1"
	EventClosedV1    = "event.closed.v1"
)

// EventPublishedPayloadV1 announces an event going live. The notification
// module uses it to schedule reminders for registered participants.
type EventPublishedPayloadV1 struct {
	EventID  sharedtypes.EventID `json:"event_id"`
	Name     string              `json:"name"`
	Slug     string              `json:"slug"`
	StartsAt *time.Time          `json:"starts_at,omitempty"`
}

// EventClosedPayloadV1 announces the end of an event's lifecycle.
type EventClosedPayloadV1 struct {
	EventID sharedtypes.EventID `json:"event_id"`
	Slug    string              `json:"slug"`
}
