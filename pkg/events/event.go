package events

import "time"

// Event is a domain occurrence published to the bus. The type code doubles
// as the notification registry key (e.g. "REGISTRATION_APPROVED").
type Event interface {
	// EventType returns the unique code for this event.
	EventType() string

	// Payload returns the event data. Keys referenced by notification
	// templates must be flat string-convertible values.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation publishers construct inline.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
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
