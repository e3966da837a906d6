package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fireplace_bridge/internal/models"
	"fireplace_bridge/internal/repository"
)

func newSQLiteRepos(t *testing.T) *repository.Repository {
	t.Helper()
	conn, err := repository.InitDB(filepath.Join(t.TempDir(), "fireplace.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return repository.NewRepository(conn)
}

func TestSQLite_StateRoundTrip(t *testing.T) {
	repos := newSQLiteRepos(t)
	ctx := context.Background()

	empty, err := repos.StateRepo.Load(ctx)
	if err != nil {
		t.Fatalf("Load empty: %v", err)
	}
	if !empty.ObservedAt.IsZero() {
		t.Fatalf("expected zero snapshot before first save, got %+v", empty)
	}

	observed := time.Date(2025, 11, 2, 18, 0, 0, 0, time.UTC)
	for _, snap := range []models.DeviceSnapshot{
		{FlameLevel: 2, FuelLevel: 4, StatusCode: 2, IsOn: true, ObservedAt: observed},
		{FlameLevel: 5, FuelLevel: 1, StatusCode: 20, IsOn: true, ObservedAt: observed.Add(5 * time.Second)},
	} {
		if err := repos.StateRepo.Save(ctx, snap); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := repos.StateRepo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.FlameLevel != 5 || got.FuelLevel != 1 || got.StatusCode != 20 || !got.IsOn {
		t.Fatalf("expected last saved snapshot, got %+v", got)
	}
	if !got.ObservedAt.Equal(observed.Add(5 * time.Second)) {
		t.Fatalf("ObservedAt: got %v", got.ObservedAt)
	}
}

func TestSQLite_EventsFilterByTypeAndRange(t *testing.T) {
	repos := newSQLiteRepos(t)
	ctx := context.Background()

	base := time.Date(2025, 11, 2, 18, 0, 0, 0, time.UTC)
	events := []models.FireplaceEvent{
		{OccurredAt: base, Type: models.EventStart, Description: "start"},
		{OccurredAt: base.Add(time.Minute), Type: models.EventFlameChange, Description: "flame", Metadata: map[string]any{"to": 4}},
		{OccurredAt: base.Add(2 * time.Minute), Type: models.EventStop, Description: "stop"},
	}
	for _, e := range events {
		if err := repos.EventRepo.Append(ctx, e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	all, err := repos.EventRepo.List(ctx, time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].Type != models.EventStart || all[2].Type != models.EventStop {
		t.Fatalf("unexpected events: %+v", all)
	}

	flame, err := repos.EventRepo.List(ctx, base.Add(30*time.Second), base.Add(90*time.Second), "flame_change")
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(flame) != 1 || flame[0].Description != "flame" {
		t.Fatalf("unexpected filtered events: %+v", flame)
	}
	meta, ok := flame[0].Metadata.(map[string]any)
	if !ok || meta["to"] != float64(4) {
		t.Fatalf("metadata not decoded: %#v", flame[0].Metadata)
	}
}

func TestSQLite_Users(t *testing.T) {
	repos := newSQLiteRepos(t)

	id, err := repos.Auth.Create("alice", "hash")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	u, err := repos.Auth.GetByUsername("alice")
	if err != nil || u == nil {
		t.Fatalf("GetByUsername: %v, %v", u, err)
	}
	if u.ID != id || u.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if _, err := repos.Auth.Create("alice", "other"); err == nil {
		t.Fatalf("expected unique violation")
	}
	missing, err := repos.Auth.GetByUsername("bob")
	if err != nil || missing != nil {
		t.Fatalf("expected (nil, nil) for missing user, got %v, %v", missing, err)
	}
}
