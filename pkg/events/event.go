package events

import (
	"context"
	"time"
)

const (
	ChatTurnCompleted   = "CHAT_TURN_COMPLETED"
	ChatSessionDeleted  = "CHAT_SESSION_DELETED"
	ContentAnalyzed     = "CONTENT_ANALYZED"
	ContentSyncedNotion = "CONTENT_SYNCED_NOTION"
	UserRegistered      = "USER_REGISTERED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CHAT_TURN_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher sends events to the bus. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurredAt"`
}

func New(eventType string, data map[string]interface{}, at time.Time) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: at}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

type discard struct{}

func (discard) Publish(context.Context, Event) error { return nil }

// Discard drops every event. Used when no bus is configured.
var Discard Publisher = discard{}

// Recorder keeps published events in memory for tests.
type Recorder struct {
	events chan Event
}

func NewRecorder(buffer int) *Recorder {
	return &Recorder{events: make(chan Event, buffer)}
}

// Publish drops the event when the buffer is full.
func (r *Recorder) Publish(ctx context.Context, event Event) error {
	select {
	case r.events <- event:
	default:
	}
	return nil
}

func (r *Recorder) Events() <-chan Event {
	return r.events
}
