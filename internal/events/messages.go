package events

import (
	"encoding/json"
	"time"
)

// Actions carried by record events.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// RecordEvent is a lightweight notification that a record mutated.
// Consumers fetch the current state from the API themselves; the event
// carries only the id and what happened to it.
type RecordEvent struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRecordEvent creates an event for the given record id and action.
func NewRecordEvent(id int64, action string) *RecordEvent {
	return &RecordEvent{
		ID:        id,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// RecordEventFromJSON creates an event from JSON bytes
func RecordEventFromJSON(data []byte) (*RecordEvent, error) {
	var e RecordEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
