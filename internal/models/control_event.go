package models

import "time"

// Control event types.
const (
	EventControl       = "CONTROL"
	EventControlFailed = "CONTROL_FAILED"
)

// ControlEvent is a single audit log entry for an actuator request.
type ControlEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // CONTROL | CONTROL_FAILED
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
