package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "entity_mapper"

const (
	resultOK    = "ok"
	resultError = "error"
)

// Metrics holds the mapper collectors.
type Metrics struct {
	mapCalls    *prometheus.CounterVec
	mapDuration *prometheus.HistogramVec
	actions     *prometheus.CounterVec
	planBuilds  *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
// An empty namespace selects DefaultNamespace.
func New(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	m := &Metrics{
		mapCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "map_calls_total",
				Help:      "Total number of top-level map calls",
			},
			[]string{"result"},
		),
		mapDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "map_duration_seconds",
				Help:      "Duration of top-level map calls in seconds",
				Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
			},
			[]string{"result"},
		),
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "entity_actions_total",
				Help:      "Total number of lifecycle actions registered in mapper contexts",
			},
			[]string{"action"},
		),
		planBuilds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "plan_builds_total",
				Help:      "Total number of type plans stored in the classifier cache",
			},
			[]string{"kind"},
		),
	}

	for _, c := range []prometheus.Collector{m.mapCalls, m.mapDuration, m.actions, m.planBuilds} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register mapper metrics: %w", err)
		}
	}

	return m, nil
}

// RecordMap records one finished top-level map call.
func (m *Metrics) RecordMap(err error, duration time.Duration) {
	if m == nil {
		return
	}

	result := resultOK
	if err != nil {
		result = resultError
	}

	m.mapCalls.WithLabelValues(result).Inc()
	m.mapDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// RecordAction counts a lifecycle action.
func (m *Metrics) RecordAction(action string) {
	if m == nil {
		return
	}

	m.actions.WithLabelValues(action).Inc()
}

// RecordPlanBuild counts a cached plan of the given kind.
func (m *Metrics) RecordPlanBuild(kind string) {
	if m == nil {
		return
	}

	m.planBuilds.WithLabelValues(kind).Inc()
}

// Timer measures an operation.
type Timer struct {
	start time.Time
}

// NewTimer starts a timer.
func NewTimer() Timer {
	return Timer{start: time.Now()}
}

// Duration returns the time elapsed since the timer started.
func (t Timer) Duration() time.Duration {
	return time.Since(t.start)
}
