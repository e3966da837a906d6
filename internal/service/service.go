package service

import (
	"context"
	"time"

	"fireplace_bridge/internal/config"
	"fireplace_bridge/internal/device"
	"fireplace_bridge/internal/logger"
	"fireplace_bridge/internal/models"
	"fireplace_bridge/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Fireplace drives the appliance. Both calls are best-effort: the result says
// what was sent, the next poll says what happened.
type Fireplace interface {
	SetOn(ctx context.Context, on bool) (ActuationResult, error)
	SetFlamePercent(ctx context.Context, percent int) (ActuationResult, error)
}

// Monitoring exposes the normalized fireplace state.
type Monitoring interface {
	GetState(ctx context.Context) (models.FireplaceState, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.FireplaceEvent, error)
}

// Poller runs the background loop that keeps the device snapshot fresh.
// Stop via context cancellation in main() for graceful shutdown.
type Poller interface {
	Run(ctx context.Context, interval time.Duration)
	PollOnce(ctx context.Context) error
	Trigger()
	Snapshot() (models.DeviceSnapshot, bool)
}

// Notifier hands out streams of state change notifications.
type Notifier interface {
	Subscribe() (<-chan models.FireplaceState, func())
}

// DeviceClient is the transport to the fireplace controller.
type DeviceClient interface {
	FetchStatus(ctx context.Context) ([]byte, error)
	SendCommand(ctx context.Context, cmd device.Command) error
}

// Recorder receives poll and command outcomes for metrics.
type Recorder interface {
	ObserveSnapshot(s models.DeviceSnapshot, took time.Duration)
	PollFailed(reason string)
	CommandSent(cmd string, ok bool)
}

type Service struct {
	Fireplace
	Monitoring
	EventLog
	Poller
	Notifier
	Authorization
}

// NewService wires the repository layer and the device client into concrete services.
func NewService(repos *repository.Repository, client DeviceClient, rec Recorder, log *logger.Logger, auth config.AuthConfig) *Service {
	hub := NewHub()
	poller := NewPollerService(client, repos.StateRepo, repos.EventRepo, hub, rec, log)
	return &Service{
		Fireplace:     NewFireplaceService(client, poller, repos.EventRepo, rec, log),
		Monitoring:    NewMonitoringService(poller, repos.StateRepo),
		EventLog:      NewEventLogService(repos.EventRepo),
		Poller:        poller,
		Notifier:      hub,
		Authorization: NewAuthService(repos.Auth, auth.SigningKey, auth.TokenTTL),
	}
}
