package device

import "fmt"

const percentScale = 100

// LevelToPercent projects a flame level onto 0..100, rounded to the nearest
// integer: 17, 33, 50, 67, 83, 100.
func LevelToPercent(level int) int {
	return (level*percentScale + MaxFlameLevel/2) / MaxFlameLevel
}

// FuelToPercent projects a fuel level (0..4) onto 0..100.
func FuelToPercent(fuel int) int {
	return fuel * percentScale / MaxFuelLevel
}

// PercentToLevel is the inverse of LevelToPercent: floor((6p+50)/100), i.e.
// the floor of the level shifted by half a step, clamped to 1..6. The half-step
// shift makes every LevelToPercent output map back to its own level and keeps
// p=100 at level 6.
func PercentToLevel(percent int) (int, error) {
	if percent < 0 || percent > percentScale {
		return 0, fmt.Errorf("percent %d outside 0..%d", percent, percentScale)
	}
	level := (percent*MaxFlameLevel + percentScale/2) / percentScale
	if level < MinFlameLevel {
		level = MinFlameLevel
	}
	if level > MaxFlameLevel {
		level = MaxFlameLevel
	}
	return level, nil
}
