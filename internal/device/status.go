package device

import "fireplace_bridge/internal/models"

const (
	// StatusWorking is the code for a burning fireplace.
	StatusWorking = 20
	// StatusUnknown names codes this adapter does not recognise.
	StatusUnknown = "UNKNOWN"
)

// Classification is what the adapter knows about a status code.
type Classification struct {
	IsOn       bool
	IsCharging bool
	Name       string
}

type statusInfo struct {
	name     string
	running  bool
	charging bool
}

// Known firmware codes. Anything not listed here is a valid code the adapter
// has not learned yet and classifies as off.
var knownStatuses = map[int]statusInfo{
	2:  {name: "PLEASE_WAIT", running: true},
	3:  {name: "COOLING", running: true},
	7:  {name: "COOLING_HIT", running: true},
	8:  {name: "COOLING_TILTED", running: true},
	9:  {name: "COOLING", running: true},
	11: {name: "AUTOREFUEL", charging: true},
	12: {name: "REFUELING", charging: true},
	15: {name: "COOLING", running: true},
	19: {name: "COOLING_CO2", running: true},
	20: {name: "WORKING", running: true},
}

// Classify maps a raw status code to its semantics. It is total: unknown codes
// are reported as off, never as an error.
func Classify(code int) Classification {
	info, ok := knownStatuses[code]
	if !ok {
		return Classification{Name: StatusUnknown}
	}
	return Classification{
		IsOn:       info.running,
		IsCharging: info.charging,
		Name:       info.name,
	}
}

// Apply returns a copy of s carrying this classification.
func (c Classification) Apply(s models.DeviceSnapshot) models.DeviceSnapshot {
	s.IsOn = c.IsOn
	s.IsCharging = c.IsCharging
	return s
}
