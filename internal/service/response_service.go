package service

import "time"

// ActuationResult reports the commands one actuation request sent.
// Issued counts attempts, Failed those the transport rejected.
type ActuationResult struct {
	From    int    `json:"from,omitempty"` // flame level the plan started from
	To      int    `json:"to,omitempty"`   // requested flame level
	Command string `json:"command,omitempty"`
	Issued  int    `json:"issued"`
	Failed  int    `json:"failed"`
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "START", "STOP", "FLAME_CHANGE", "STATUS_CHANGE", ...
}
