package metrics

import (
	"net/http"
	"time"

	"fireplace_bridge/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fireplace"

// Recorder exports poll and command outcomes on its own registry, so only
// fireplace metrics are served.
type Recorder struct {
	registry *prometheus.Registry

	flameLevel   prometheus.Gauge
	fuelLevel    prometheus.Gauge
	statusCode   prometheus.Gauge
	on           prometheus.Gauge
	charging     prometheus.Gauge
	lastPoll     prometheus.Gauge
	pollDuration prometheus.Histogram
	polls        prometheus.Counter
	pollFailures *prometheus.CounterVec
	commands     *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		flameLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "flame_level",
			Help:      "Flame level reported by the last successful poll (1-6)",
		}),
		fuelLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fuel_level",
			Help:      "Fuel level reported by the last successful poll (0-4)",
		}),
		statusCode: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "status_code",
			Help:      "Raw device status code (tryb)",
		}),
		on: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "on",
			Help:      "1 if the fireplace is burning or cooling down, 0 otherwise",
		}),
		charging: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "charging",
			Help:      "1 while the fireplace refuels, 0 otherwise",
		}),
		lastPoll: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_poll_timestamp_seconds",
			Help:      "Unix timestamp of the last successful poll",
		}),
		pollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_duration_seconds",
			Help:      "Time to fetch and decode state.xml",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
		polls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_total",
			Help:      "Successful polls",
		}),
		pollFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_failures_total",
			Help:      "Failed polls by reason (transport, codec, other)",
		}, []string{"reason"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Button commands sent to the fireplace",
		}, []string{"command", "result"}),
	}

	r.registry.MustRegister(
		r.flameLevel,
		r.fuelLevel,
		r.statusCode,
		r.on,
		r.charging,
		r.lastPoll,
		r.pollDuration,
		r.polls,
		r.pollFailures,
		r.commands,
	)
	return r
}

func (r *Recorder) ObserveSnapshot(s models.DeviceSnapshot, took time.Duration) {
	r.flameLevel.Set(float64(s.FlameLevel))
	r.fuelLevel.Set(float64(s.FuelLevel))
	r.statusCode.Set(float64(s.StatusCode))
	r.on.Set(boolToFloat(s.IsOn))
	r.charging.Set(boolToFloat(s.IsCharging))
	r.lastPoll.Set(float64(s.ObservedAt.Unix()))
	r.pollDuration.Observe(took.Seconds())
	r.polls.Inc()
}

func (r *Recorder) PollFailed(reason string) {
	r.pollFailures.WithLabelValues(reason).Inc()
}

func (r *Recorder) CommandSent(cmd string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	r.commands.WithLabelValues(cmd, result).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
