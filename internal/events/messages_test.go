package events

import (
	"testing"
	"time"
)

func TestRecordEventRoundTrip(t *testing.T) {
	event := NewRecordEvent(42, ActionUpdated)

	body, err := event.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := RecordEventFromJSON(body)
	if err != nil {
		t.Fatalf("RecordEventFromJSON: %v", err)
	}
	if decoded.ID != 42 {
		t.Errorf("id = %d, want 42", decoded.ID)
	}
	if decoded.Action != ActionUpdated {
		t.Errorf("action = %q, want %q", decoded.Action, ActionUpdated)
	}
	if decoded.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestNewRecordEventTimestamp(t *testing.T) {
	before := time.Now()
	event := NewRecordEvent(1, ActionCreated)
	after := time.Now()

	if event.Timestamp.Before(before) || event.Timestamp.After(after) {
		t.Errorf("timestamp %v outside [%v, %v]", event.Timestamp, before, after)
	}
}

func TestRecordEventFromJSONInvalid(t *testing.T) {
	if _, err := RecordEventFromJSON([]byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
