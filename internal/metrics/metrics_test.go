package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fireplace_bridge/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gaugeValue(t *testing.T, r *Recorder, name string) float64 {
	t.Helper()
	families, err := r.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			require.NotEmpty(t, mf.GetMetric())
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestRecorder_ObserveSnapshot(t *testing.T) {
	r := NewRecorder()
	observed := time.Unix(1_700_000_000, 0).UTC()

	r.ObserveSnapshot(models.DeviceSnapshot{
		FlameLevel: 4,
		FuelLevel:  1,
		StatusCode: 20,
		IsOn:       true,
		ObservedAt: observed,
	}, 120*time.Millisecond)

	assert.Equal(t, 4.0, gaugeValue(t, r, "fireplace_flame_level"))
	assert.Equal(t, 1.0, gaugeValue(t, r, "fireplace_fuel_level"))
	assert.Equal(t, 20.0, gaugeValue(t, r, "fireplace_status_code"))
	assert.Equal(t, 1.0, gaugeValue(t, r, "fireplace_on"))
	assert.Equal(t, 0.0, gaugeValue(t, r, "fireplace_charging"))
	assert.Equal(t, float64(observed.Unix()), gaugeValue(t, r, "fireplace_last_poll_timestamp_seconds"))
}

func TestRecorder_HandlerServesCounters(t *testing.T) {
	r := NewRecorder()
	r.ObserveSnapshot(models.DeviceSnapshot{FlameLevel: 1, ObservedAt: time.Now()}, time.Millisecond)
	r.PollFailed("transport")
	r.PollFailed("transport")
	r.PollFailed("codec")
	r.CommandSent("ButtonPlus", true)
	r.CommandSent("ButtonPlus", false)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(raw)

	for _, want := range []string{
		"fireplace_polls_total 1",
		`fireplace_poll_failures_total{reason="transport"} 2`,
		`fireplace_poll_failures_total{reason="codec"} 1`,
		`fireplace_commands_total{command="ButtonPlus",result="ok"} 1`,
		`fireplace_commands_total{command="ButtonPlus",result="error"} 1`,
		"fireplace_poll_duration_seconds_count 1",
	} {
		assert.True(t, strings.Contains(body, want), "missing %q in:\n%s", want, body)
	}
	assert.False(t, strings.Contains(body, "go_goroutines"), "runtime collectors must not be registered")
}
