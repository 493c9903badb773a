// Package events fans out typed notifications to SSE subscribers: the
// refresh loop publishes, every connected /events client subscribes.
package events

import (
	"encoding/json"
	"time"
)

// Event types published by the service:
//   - ranking_updated: a refresh replaced the stored snapshot
//   - listing_new: a never-before-seen listing was admitted
//   - ping: SSE keepalive
type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// New stamps an event with the current time and serialized payload.
func New(typ string, data any) Event {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	return Event{Type: typ, Version: 1, At: time.Now().UTC(), Data: raw}
}

// WithRequestID returns a copy tied to the request that caused it.
func (e Event) WithRequestID(id string) Event {
	e.RequestID = id
	return e
}

// Encode renders the SSE data payload.
func (e Event) Encode() string {
	b, _ := json.Marshal(e)
	return string(b)
}
