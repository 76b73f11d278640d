package websocket

import "encoding/json"

// Message defines the structure for websocket messages pushed to clients.
// Actions include "session.created", "session.updated", "session.deleted",
// "reminder.due" and "system.stats".
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewEventMessage marshals an event message, falling back to an error
// message if the payload cannot be encoded.
func NewEventMessage(action string, payload interface{}) []byte {
	data, err := json.Marshal(Message{Action: action, Payload: payload})
	if err != nil {
		return NewErrorMessage("failed to encode event: " + action)
	}
	return data
}

// NewErrorMessage marshals an error message for a client.
func NewErrorMessage(detail string) []byte {
	data, _ := json.Marshal(Message{Action: "error", Payload: map[string]string{"detail": detail}})
	return data
}
