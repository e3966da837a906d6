package service

import (
	"context"
	"fmt"
	"time"

	"fireplace_bridge/internal/device"
	"fireplace_bridge/internal/models"
	"fireplace_bridge/internal/repository"
)

type snapshotReader interface {
	Snapshot() (models.DeviceSnapshot, bool)
}

type MonitoringService struct {
	snapshots snapshotReader
	stateRepo repository.StateRepo
}

func NewMonitoringService(snapshots snapshotReader, stateRepo repository.StateRepo) *MonitoringService {
	return &MonitoringService{snapshots: snapshots, stateRepo: stateRepo}
}

// GetState returns the normalized live snapshot. Before the first successful
// poll it falls back to the persisted row, marked stale.
func (s *MonitoringService) GetState(ctx context.Context) (models.FireplaceState, error) {
	if snap, ok := s.snapshots.Snapshot(); ok {
		return Normalize(snap), nil
	}

	persisted, err := s.stateRepo.Load(ctx)
	if err != nil {
		return models.FireplaceState{}, fmt.Errorf("load persisted state: %w", err)
	}
	if persisted.ObservedAt.IsZero() {
		return models.FireplaceState{}, ErrNoSnapshot
	}
	st := Normalize(persisted)
	st.Stale = true
	return st, nil
}

// Normalize projects a device snapshot onto the consumer view.
func Normalize(s models.DeviceSnapshot) models.FireplaceState {
	return models.FireplaceState{
		On:           s.IsOn,
		FlamePercent: device.LevelToPercent(s.FlameLevel),
		FuelPercent:  device.FuelToPercent(s.FuelLevel),
		LowFuel:      s.FuelLevel == device.MinFuelLevel,
		Charging:     s.IsCharging,
		FlameLevel:   s.FlameLevel,
		FuelLevel:    s.FuelLevel,
		StatusCode:   s.StatusCode,
		Status:       device.Classify(s.StatusCode).Name,
		UpdatedAt:    toUTC(s.ObservedAt),
	}
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
