// Package notify delivers directory notifications to connected clients over
// Server-Sent Events.
package notify

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventPersonTagged is sent to a profile owner when someone tags them.
	EventPersonTagged EventType = "person.tagged"
	// EventPersonUntagged is sent to a profile owner when someone removes a tag.
	EventPersonUntagged EventType = "person.untagged"
	// EventPersonThanked is sent to the recipient of a thanks note.
	EventPersonThanked EventType = "person.thanked"
	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`

	// Recipient account. Empty means broadcast.
	UserID string `json:"-"`
}

// NotificationData is the payload of person.* events.
type NotificationData struct {
	ActorID   string `json:"actor_id"`
	Verb      string `json:"verb"`
	SubjectID string `json:"subject_id"`
	Title     string `json:"title"`
	Link      string `json:"link"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewEvent builds an event with a fresh id.
func NewEvent(typ EventType, data any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewHeartbeatEvent creates a keepalive event.
func NewHeartbeatEvent() Event {
	return NewEvent(EventHeartbeat, HeartbeatEventData{ServerTime: time.Now()})
}
