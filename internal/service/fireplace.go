package service

import (
	"context"
	"fmt"

	"fireplace_bridge/internal/device"
	"fireplace_bridge/internal/logger"
	"fireplace_bridge/internal/models"
	"fireplace_bridge/internal/repository"
)

type snapshotSource interface {
	Snapshot() (models.DeviceSnapshot, bool)
	Trigger()
}

// FireplaceService turns requests into button presses. It is open loop: no
// step is confirmed, the next poll reconciles whatever the device did.
type FireplaceService struct {
	client    DeviceClient
	snapshots snapshotSource
	eventRepo repository.EventRepo
	rec       Recorder
	log       *logger.Logger
}

func NewFireplaceService(client DeviceClient, snapshots snapshotSource, eventRepo repository.EventRepo, rec Recorder, log *logger.Logger) *FireplaceService {
	return &FireplaceService{
		client:    client,
		snapshots: snapshots,
		eventRepo: eventRepo,
		rec:       rec,
		log:       log,
	}
}

// SetOn starts or stops the fireplace. Starting an already running fireplace
// sends nothing; stopping always sends ButtonStop.
func (s *FireplaceService) SetOn(ctx context.Context, on bool) (ActuationResult, error) {
	snap, ok := s.snapshots.Snapshot()

	var res ActuationResult
	if on && ok && snap.IsOn {
		s.log.Debugw("start_skipped", "status_code", snap.StatusCode)
		return res, nil
	}

	cmd, typ, desc := device.CommandStop, models.EventStop, "Fireplace stop requested"
	if on {
		cmd, typ, desc = device.CommandStart, models.EventStart, "Fireplace start requested"
	}

	res.Command = string(cmd)
	res.Issued, res.Failed = s.press(ctx, cmd, 1)
	recordEvent(ctx, s.eventRepo, s.log, newEvent(typ, desc, map[string]any{
		"failed": res.Failed,
	}))

	s.snapshots.Trigger()
	return res, nil
}

// SetFlamePercent moves the flame toward percent one level per command.
func (s *FireplaceService) SetFlamePercent(ctx context.Context, percent int) (ActuationResult, error) {
	target, err := device.PercentToLevel(percent)
	if err != nil {
		return ActuationResult{}, fmt.Errorf("%w: %v", ErrContractViolation, err)
	}
	snap, ok := s.snapshots.Snapshot()
	if !ok {
		return ActuationResult{}, ErrNoSnapshot
	}

	cmd, steps := planFlameSteps(snap.FlameLevel, target)
	res := ActuationResult{From: snap.FlameLevel, To: target}
	if steps > 0 {
		res.Command = string(cmd)
		res.Issued, res.Failed = s.press(ctx, cmd, steps)
	}

	s.log.Infow("flame_requested", "percent", percent, "from", res.From, "to", res.To, "issued", res.Issued, "failed", res.Failed)
	recordEvent(ctx, s.eventRepo, s.log, newEvent(
		models.EventFlameChange,
		fmt.Sprintf("Flame change requested: level %d to %d", res.From, res.To),
		map[string]any{
			"percent": percent,
			"from":    res.From,
			"to":      res.To,
			"issued":  res.Issued,
			"failed":  res.Failed,
		},
	))

	s.snapshots.Trigger()
	return res, nil
}

// planFlameSteps returns the button and how many times to press it to go from
// current to target.
func planFlameSteps(current, target int) (device.Command, int) {
	switch delta := target - current; {
	case delta > 0:
		return device.CommandPlus, delta
	case delta < 0:
		return device.CommandMinus, -delta
	default:
		return "", 0
	}
}

// press sends cmd n times in order. A failed press is recorded and the
// sequence carries on. Cancelling ctx does not cut the sequence short; each
// press is bounded by the client timeout.
func (s *FireplaceService) press(ctx context.Context, cmd device.Command, n int) (issued, failed int) {
	ctx = context.WithoutCancel(ctx)
	for i := 1; i <= n; i++ {
		err := s.client.SendCommand(ctx, cmd)
		issued++
		s.rec.CommandSent(string(cmd), err == nil)
		if err == nil {
			continue
		}
		failed++
		s.log.Warnw("command_failed", "command", cmd, "step", i, "steps", n, "err", err)
		recordEvent(ctx, s.eventRepo, s.log, newEvent(
			models.EventCommandError,
			fmt.Sprintf("%s failed (step %d of %d)", cmd, i, n),
			map[string]any{"command": string(cmd), "step": i, "steps": n, "error": err.Error()},
		))
	}
	return issued, failed
}
