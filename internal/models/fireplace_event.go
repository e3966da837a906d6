package models

import "time"

// FireplaceEvent is a single log entry.
type FireplaceEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // START | STOP | FLAME_CHANGE | STATUS_CHANGE | POLL_ERROR | POLL_RECOVERED | COMMAND_ERROR
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}

// Event types written to the log.
const (
	EventStart         = "START"
	EventStop          = "STOP"
	EventFlameChange   = "FLAME_CHANGE"
	EventStatusChange  = "STATUS_CHANGE"
	EventPollError     = "POLL_ERROR"
	EventPollRecovered = "POLL_RECOVERED"
	EventCommandError  = "COMMAND_ERROR"
)
