package models

import "time"

// FireplaceState is the normalized view handed to API and WebSocket consumers.
type FireplaceState struct {
	On           bool      `json:"on"`
	FlamePercent int       `json:"flame_percent"` // 0..100
	FuelPercent  int       `json:"fuel_percent"`  // 0..100
	LowFuel      bool      `json:"low_fuel"`
	Charging     bool      `json:"charging"`
	FlameLevel   int       `json:"flame_level"`
	FuelLevel    int       `json:"fuel_level"`
	StatusCode   int       `json:"status_code"`
	Status       string    `json:"status"` // e.g. WORKING, COOLING, UNKNOWN
	UpdatedAt    time.Time `json:"updated_at"`
	Stale        bool      `json:"stale,omitempty"`
}
