package amqp

import (
	"testing"
	"time"
)

func TestNewEntrySyncMessage(t *testing.T) {
	msg := NewEntrySyncMessage("abc-123")

	if msg.ID != "abc-123" {
		t.Errorf("NewEntrySyncMessage() ID = %v, want abc-123", msg.ID)
	}
	if msg.Action != ActionUpsert {
		t.Errorf("NewEntrySyncMessage() Action = %v, want %v", msg.Action, ActionUpsert)
	}
	if msg.Timestamp.IsZero() {
		t.Error("NewEntrySyncMessage() Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("NewEntrySyncMessage() Timestamp should be recent")
	}
}

func TestNewEntryDeleteMessage(t *testing.T) {
	msg := NewEntryDeleteMessage("abc-123")

	if msg.Action != ActionDelete {
		t.Errorf("NewEntryDeleteMessage() Action = %v, want %v", msg.Action, ActionDelete)
	}
}

func TestEntrySyncMessage_JSON(t *testing.T) {
	timestamp := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	msg := &EntrySyncMessage{
		ID:        "abc-123",
		Action:    ActionUpsert,
		Timestamp: timestamp,
	}

	// Test JSON marshaling
	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	// Test JSON unmarshaling
	parsedMsg, err := EntrySyncMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("EntrySyncMessageFromJSON() error = %v", err)
	}

	if parsedMsg.ID != msg.ID {
		t.Errorf("Parsed ID = %v, want %v", parsedMsg.ID, msg.ID)
	}
	if parsedMsg.Action != msg.Action {
		t.Errorf("Parsed Action = %v, want %v", parsedMsg.Action, msg.Action)
	}
	if !parsedMsg.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsedMsg.Timestamp, msg.Timestamp)
	}
}

func TestEntrySyncMessage_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"id": 42, "action": []}`)

	_, err := EntrySyncMessageFromJSON(invalidJSON)
	if err == nil {
		t.Error("EntrySyncMessageFromJSON() should fail with invalid JSON")
	}
}
