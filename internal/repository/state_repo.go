package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fireplace_bridge/internal/models"
)

type StateSQLite struct {
	db *sql.DB
}

func NewStateSQLite(db *sql.DB) *StateSQLite {
	return &StateSQLite{db: db}
}

const (
	fireplaceStateRowID = 1

	upsertStateSQL = `
		INSERT INTO fireplace_state (id, flame_level, fuel_level, status_code, is_on, charging, observed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			flame_level=excluded.flame_level,
			fuel_level=excluded.fuel_level,
			status_code=excluded.status_code,
			is_on=excluded.is_on,
			charging=excluded.charging,
			observed_at=excluded.observed_at
	`

	selectStateSQL = `
		SELECT flame_level, fuel_level, status_code, is_on, charging, observed_at
		FROM fireplace_state WHERE id=?
	`
)

// Save replaces the single fireplace_state row.
func (r *StateSQLite) Save(ctx context.Context, s models.DeviceSnapshot) error {
	ts := s.ObservedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	_, err := r.db.ExecContext(ctx, upsertStateSQL,
		fireplaceStateRowID,
		s.FlameLevel,
		s.FuelLevel,
		s.StatusCode,
		s.IsOn,
		s.IsCharging,
		ts,
	)
	return err
}

// Load returns the persisted snapshot, or a zero snapshot (zero ObservedAt)
// when nothing has been polled yet.
func (r *StateSQLite) Load(ctx context.Context) (models.DeviceSnapshot, error) {
	row := r.db.QueryRowContext(ctx, selectStateSQL, fireplaceStateRowID)

	var s models.DeviceSnapshot
	if err := row.Scan(
		&s.FlameLevel,
		&s.FuelLevel,
		&s.StatusCode,
		&s.IsOn,
		&s.IsCharging,
		&s.ObservedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DeviceSnapshot{}, nil
		}
		return models.DeviceSnapshot{}, err
	}
	s.ObservedAt = s.ObservedAt.UTC()
	return s, nil
}
