package repository

import (
	"context"
	"database/sql"
	"time"

	"fireplace_bridge/internal/models"
	"fireplace_bridge/internal/repository/db"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// StateRepo keeps the last successfully polled snapshot across restarts.
type StateRepo interface {
	Save(ctx context.Context, s models.DeviceSnapshot) error
	Load(ctx context.Context) (models.DeviceSnapshot, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.FireplaceEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.FireplaceEvent, error)
}

type Repository struct {
	StateRepo StateRepo
	EventRepo EventRepo
	Auth      Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		StateRepo: NewStateSQLite(db),
		EventRepo: NewEventSQLite(db),
		Auth:      NewUserRepository(db),
	}
}

// InitDB opens the SQLite file at path and applies the schema.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
