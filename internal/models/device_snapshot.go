package models

import "time"

// DeviceSnapshot is one successful poll of the fireplace. It is replaced
// wholesale on every poll and never mutated in place.
type DeviceSnapshot struct {
	FlameLevel int       `json:"flame_level"` // 1..6
	FuelLevel  int       `json:"fuel_level"`  // 0..4
	StatusCode int       `json:"status_code"` // device "tryb"
	IsOn       bool      `json:"is_on"`
	IsCharging bool      `json:"is_charging"`
	ObservedAt time.Time `json:"observed_at"`
}
