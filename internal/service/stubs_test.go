package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"fireplace_bridge/internal/device"
	"fireplace_bridge/internal/models"
)

func deviceXML(flame, fuel, tryb int) []byte {
	return []byte(fmt.Sprintf(
		"<response><param><name>flame</name><value>%d</value></param>"+
			"<param><name>fuel</name><value>%d</value></param>"+
			"<param><name>tryb</name><value>%d</value></param></response>",
		flame, fuel, tryb))
}

// fakeClient stands in for device.Client. fetch and send receive the
// 1-based call number.
type fakeClient struct {
	mu       sync.Mutex
	fetch    func(n int) ([]byte, error)
	send     func(n int, cmd device.Command) error
	fetches  int
	commands []device.Command
}

func (c *fakeClient) FetchStatus(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	c.fetches++
	n := c.fetches
	fn := c.fetch
	c.mu.Unlock()
	if fn == nil {
		return deviceXML(6, 2, 20), nil
	}
	return fn(n)
}

func (c *fakeClient) SendCommand(ctx context.Context, cmd device.Command) error {
	c.mu.Lock()
	c.commands = append(c.commands, cmd)
	n := len(c.commands)
	fn := c.send
	c.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(n, cmd)
}

func (c *fakeClient) fetchCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetches
}

func (c *fakeClient) sent() []device.Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]device.Command(nil), c.commands...)
}

func countCommands(cmds []device.Command, want device.Command) int {
	n := 0
	for _, c := range cmds {
		if c == want {
			n++
		}
	}
	return n
}

type memStateRepo struct {
	mu      sync.Mutex
	saved   []models.DeviceSnapshot
	saveErr error
}

func (r *memStateRepo) Save(ctx context.Context, s models.DeviceSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, s)
	return r.saveErr
}

func (r *memStateRepo) Load(ctx context.Context) (models.DeviceSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.saved) == 0 {
		return models.DeviceSnapshot{}, nil
	}
	return r.saved[len(r.saved)-1], nil
}

type recordingEventRepo struct {
	mu        sync.Mutex
	events    []models.FireplaceEvent
	appendErr error
}

func (r *recordingEventRepo) Append(ctx context.Context, e models.FireplaceEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.appendErr
}

func (r *recordingEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.FireplaceEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.FireplaceEvent(nil), r.events...), nil
}

func (r *recordingEventRepo) ofType(typ string) []models.FireplaceEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.FireplaceEvent
	for _, e := range r.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

type countingRecorder struct {
	mu        sync.Mutex
	snapshots int
	failures  map[string]int
	commandOK int
	commandKO int
}

func (r *countingRecorder) ObserveSnapshot(s models.DeviceSnapshot, took time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots++
}

func (r *countingRecorder) PollFailed(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures == nil {
		r.failures = make(map[string]int)
	}
	r.failures[reason]++
}

func (r *countingRecorder) CommandSent(cmd string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ok {
		r.commandOK++
	} else {
		r.commandKO++
	}
}

// staticSnapshots is a snapshotSource with a fixed snapshot.
type staticSnapshots struct {
	snap     models.DeviceSnapshot
	ok       bool
	triggers int
}

func (s *staticSnapshots) Snapshot() (models.DeviceSnapshot, bool) { return s.snap, s.ok }
func (s *staticSnapshots) Trigger()                                { s.triggers++ }

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
