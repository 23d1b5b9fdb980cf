package amqp

import (
	"encoding/json"
	"time"
)

// Sync message actions.
const (
	ActionUpsert = "upsert"
	ActionDelete = "delete"
)

// EntrySyncMessage tells the backup worker that an entry changed. It carries
// only the id and action; the worker fetches the current row from the
// database so a stale message never overwrites fresher data.
type EntrySyncMessage struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntrySyncMessage creates an upsert message for an entry id.
func NewEntrySyncMessage(id string) *EntrySyncMessage {
	return &EntrySyncMessage{
		ID:        id,
		Action:    ActionUpsert,
		Timestamp: time.Now(),
	}
}

// NewEntryDeleteMessage creates a delete message for an entry id.
func NewEntryDeleteMessage(id string) *EntrySyncMessage {
	return &EntrySyncMessage{
		ID:        id,
		Action:    ActionDelete,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EntrySyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func EntrySyncMessageFromJSON(data []byte) (*EntrySyncMessage, error) {
	var msg EntrySyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
