package events

import (
	"encoding/json"
	"time"
)

const (
	TypeLeadAdded  = "lead_added"
	TypeLeadScored = "lead_scored"
)

// Event is the wire shape published on the hub. Data carries event-specific
// payload, e.g. the lead id and source for lead_added.
type Event struct {
	Type    string          `json:"type"`
	Version int             `json:"v"`
	At      time.Time       `json:"at"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Make serializes an event for publishing.
func Make(typ string, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:    typ,
		Version: 1,
		At:      time.Now().UTC(),
		Data:    raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}
