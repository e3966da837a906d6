package service

import (
	"context"
	"time"

	"fireplace_bridge/internal/logger"
	"fireplace_bridge/internal/models"
	"fireplace_bridge/internal/repository"

	"github.com/google/uuid"
)

func newEvent(typ, description string, meta any) models.FireplaceEvent {
	return models.FireplaceEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		Description: description,
		Metadata:    meta,
	}
}

// recordEvent appends e; a failing event log never fails the caller.
func recordEvent(ctx context.Context, repo repository.EventRepo, log *logger.Logger, e models.FireplaceEvent) {
	if err := repo.Append(ctx, e); err != nil {
		log.Warnw("event_append_failed", "type", e.Type, "err", err)
	}
}
