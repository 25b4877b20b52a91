package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Message is the wire form of an Event for external sinks and streams.
type Message struct {
	Name    string          `json:"name"`
	UserID  *uuid.UUID      `json:"user_id,omitempty"`
	At      time.Time       `json:"at"`
	Payload json.RawMessage `json:"payload"`
}

// Encode marshals e into its wire form.
func Encode(e Event) ([]byte, error) {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, err
	}

	msg := Message{Name: e.Name, At: e.At, Payload: payload}
	if owner, ok := e.OwnerID(); ok {
		msg.UserID = &owner
	}

	return json.Marshal(msg)
}
