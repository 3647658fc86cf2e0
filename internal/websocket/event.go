package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents what happened to an entity
type EventType string

const (
	EventTypeCreated     EventType = "created"
	EventTypeUpdated     EventType = "updated"
	EventTypeActivated   EventType = "activated"
	EventTypeDeactivated EventType = "deactivated"
)

// EntityType represents the kind of entity the event is about
type EntityType string

const (
	EntityTypeBudget EntityType = "budget"
)

// Event is a message broadcast to a workspace's connected clients.
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"` // Combined type e.g. "budget.activated"
	Entity    EntityType  `json:"entity"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// BudgetCreated creates a budget.created event
func BudgetCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeBudget, payload)
}

// BudgetUpdated creates a budget.updated event
func BudgetUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeBudget, payload)
}

// BudgetActivated creates a budget.activated event
func BudgetActivated(payload interface{}) Event {
	return NewEvent(EventTypeActivated, EntityTypeBudget, payload)
}

// BudgetDeactivated creates a budget.deactivated event
func BudgetDeactivated(payload interface{}) Event {
	return NewEvent(EventTypeDeactivated, EntityTypeBudget, payload)
}
