package types

import "github.com/google/uuid"

// Event represents a typed event emitted during a state transition. Every
// successful mutation emits exactly one Event (spec.md §4's "Event
// emission" design note); failed mutations emit none.
//
// ID is a UUID envelope identifier (not part of spec.md's own event
// payloads) so off-chain consumers — the SQL indexer in native/indexer is
// the one in this repo — can deduplicate redelivered events without relying
// on (Type, Attributes) equality.
type Event struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

// NewEvent constructs an Event with a fresh envelope id.
func NewEvent(eventType string, attrs map[string]string) *Event {
	return &Event{ID: uuid.NewString(), Type: eventType, Attributes: attrs}
}

// EventType implements the events.Event interface.
func (e *Event) EventType() string { return e.Type }
