package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"fireplace_bridge/internal/device"
	"fireplace_bridge/internal/logger"
	"fireplace_bridge/internal/models"
	"fireplace_bridge/internal/repository"
)

const defaultPollInterval = 5 * time.Second

// Failure reasons reported to the Recorder.
const (
	reasonTransport = "transport"
	reasonCodec     = "codec"
	reasonOther     = "other"
)

type publisher interface {
	Publish(st models.FireplaceState)
}

// PollerService owns the device snapshot. It is the only writer; everyone
// else reads copies through Snapshot.
type PollerService struct {
	client    DeviceClient
	stateRepo repository.StateRepo
	eventRepo repository.EventRepo
	hub       publisher
	rec       Recorder
	log       *logger.Logger

	snapshot atomic.Pointer[models.DeviceSnapshot]
	trigger  chan struct{}

	mu      sync.Mutex // one tick at a time
	failing bool       // guarded by mu
}

func NewPollerService(
	client DeviceClient,
	stateRepo repository.StateRepo,
	eventRepo repository.EventRepo,
	hub publisher,
	rec Recorder,
	log *logger.Logger,
) *PollerService {
	return &PollerService{
		client:    client,
		stateRepo: stateRepo,
		eventRepo: eventRepo,
		hub:       hub,
		rec:       rec,
		log:       log,
		trigger:   make(chan struct{}, 1),
	}
}

// Run polls once immediately, then at every interval and whenever Trigger is
// called, until ctx is canceled.
func (p *PollerService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	_ = p.PollOnce(ctx)

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_ = p.PollOnce(ctx)
		case <-p.trigger:
			_ = p.PollOnce(ctx)
		}
	}
}

// Trigger requests an out-of-cadence poll. Requests made while one is already
// pending are coalesced.
func (p *PollerService) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Snapshot returns a copy of the last good snapshot, false if none yet.
func (p *PollerService) Snapshot() (models.DeviceSnapshot, bool) {
	s := p.snapshot.Load()
	if s == nil {
		return models.DeviceSnapshot{}, false
	}
	return *s, true
}

// PollOnce fetches, decodes and publishes one snapshot. On failure the
// previous snapshot stays in place and the error is returned for callers that
// care; Run ignores it.
func (p *PollerService) PollOnce(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := time.Now()
	raw, err := p.client.FetchStatus(ctx)
	if err != nil {
		return p.fail(ctx, fmt.Errorf("fetch state: %w", err))
	}
	snap, err := device.Decode(raw)
	if err != nil {
		return p.fail(ctx, fmt.Errorf("decode state: %w", err))
	}

	cls := device.Classify(snap.StatusCode)
	snap = cls.Apply(snap)
	snap.ObservedAt = time.Now().UTC()

	prev := p.snapshot.Swap(&snap)
	p.rec.ObserveSnapshot(snap, time.Since(start))

	if err := p.stateRepo.Save(ctx, snap); err != nil {
		p.log.Warnw("state_persist_failed", "err", err)
	}

	if p.failing {
		p.failing = false
		p.log.Infow("poll_recovered", "status", cls.Name)
		recordEvent(ctx, p.eventRepo, p.log, newEvent(models.EventPollRecovered, "Fireplace reachable again", nil))
	}

	if prev != nil && prev.StatusCode != snap.StatusCode {
		from := device.Classify(prev.StatusCode)
		p.log.Infow("status_changed", "from", prev.StatusCode, "to", snap.StatusCode, "status", cls.Name)
		recordEvent(ctx, p.eventRepo, p.log, newEvent(
			models.EventStatusChange,
			fmt.Sprintf("Status changed from %s to %s", from.Name, cls.Name),
			map[string]any{
				"from_code": prev.StatusCode,
				"to_code":   snap.StatusCode,
				"from":      from.Name,
				"to":        cls.Name,
				"is_on":     snap.IsOn,
			},
		))
	}

	// notifications are idempotent; consumers get one per successful poll
	p.hub.Publish(Normalize(snap))
	return nil
}

func (p *PollerService) fail(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	reason := reasonOther
	switch {
	case errors.Is(err, device.ErrTransport):
		reason = reasonTransport
	case errors.Is(err, device.ErrCodec):
		reason = reasonCodec
	}
	p.rec.PollFailed(reason)
	p.log.Warnw("poll_failed", "reason", reason, "err", err)

	if !p.failing {
		p.failing = true
		recordEvent(ctx, p.eventRepo, p.log, newEvent(
			models.EventPollError,
			"Fireplace poll failed",
			map[string]any{"reason": reason, "error": err.Error()},
		))
	}
	return err
}
