package repository_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"fireplace_bridge/internal/models"
	"fireplace_bridge/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

var stateColumns = []string{"flame_level", "fuel_level", "status_code", "is_on", "charging", "observed_at"}

func TestStateSQLite_Save_SetsUTCNowWhenTimeZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStateSQLite(db)

	snap := models.DeviceSnapshot{FlameLevel: 3, FuelLevel: 0, StatusCode: 20, IsOn: true}

	isUTCRecent := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		if !ok || tm.Location() != time.UTC {
			return false
		}
		now := time.Now().UTC()
		return !tm.Before(now.Add(-5*time.Second)) && !tm.After(now.Add(5*time.Second))
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO fireplace_state")).
		WithArgs(1, 3, 0, 20, true, false, isUTCRecent).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), snap); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStateSQLite_Save_ConvertsObservedAtToUTC(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStateSQLite(db)

	observed := time.Date(2023, 10, 5, 12, 34, 56, 0, time.FixedZone("JST", 9*3600))
	snap := models.DeviceSnapshot{FlameLevel: 6, FuelLevel: 4, StatusCode: 12, IsCharging: true, ObservedAt: observed}

	isExactUTC := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		return ok && tm.Equal(observed) && tm.Location() == time.UTC
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO fireplace_state")).
		WithArgs(1, 6, 4, 12, false, true, isExactUTC).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), snap); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStateSQLite_Save_ExecErrorIsPropagated(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStateSQLite(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO fireplace_state")).
		WillReturnError(errors.New("disk full"))

	if err := repo.Save(context.Background(), models.DeviceSnapshot{FlameLevel: 1}); err == nil {
		t.Fatalf("Save() expected error, got nil")
	}
}

func TestStateSQLite_Load_NoRowsReturnsZeroSnapshot(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStateSQLite(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT flame_level, fuel_level, status_code, is_on, charging, observed_at")).
		WithArgs(1).
		WillReturnError(sql.ErrNoRows)

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if got != (models.DeviceSnapshot{}) {
		t.Fatalf("Load() expected zero snapshot, got: %+v", got)
	}
}

func TestStateSQLite_Load_HappyPath(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStateSQLite(db)

	locNY, _ := time.LoadLocation("America/New_York")
	nonUTC := time.Date(2024, 2, 1, 8, 30, 0, 0, locNY)

	rows := sqlmock.NewRows(stateColumns).AddRow(4, 2, 20, true, false, nonUTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT flame_level, fuel_level, status_code, is_on, charging, observed_at")).
		WithArgs(1).
		WillReturnRows(rows)

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if got.FlameLevel != 4 || got.FuelLevel != 2 || got.StatusCode != 20 || !got.IsOn || got.IsCharging {
		t.Fatalf("Load() unexpected fields: %+v", got)
	}
	if got.ObservedAt.Location() != time.UTC || !got.ObservedAt.Equal(nonUTC) {
		t.Fatalf("Load() ObservedAt not UTC: %v", got.ObservedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStateSQLite_Load_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStateSQLite(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT flame_level")).
		WithArgs(1).
		WillReturnError(errors.New("db down"))

	if _, err := repo.Load(context.Background()); err == nil {
		t.Fatalf("Load() expected error")
	}
}

type sqlmockArgumentFunc func(v driver.Value) bool

func (f sqlmockArgumentFunc) Match(v driver.Value) bool {
	return f(v)
}
