package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okhramov/perimeter-sentinel/internal/domain/watch"
)

// Metrics aggregates the counters and gauges the monitoring loop reports.
// It carries its own registry so tests can instantiate it without
// colliding on the default one.
type Metrics struct {
	registry *prometheus.Registry

	CyclesTotal            prometheus.Counter
	SensorFailuresTotal    prometheus.Counter
	ActuationFailuresTotal prometheus.Counter
	SinkFailuresTotal      prometheus.Counter
	AlertState             prometheus.Gauge
	DistanceCM             prometheus.Gauge
}

// New builds a Metrics with all collectors registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		CyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_cycles_total",
			Help: "Completed sensor polling cycles.",
		}),
		SensorFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_sensor_failures_total",
			Help: "Polling cycles aborted because the sensor returned no reading.",
		}),
		ActuationFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_actuation_failures_total",
			Help: "Failed attempts to drive the alert output.",
		}),
		SinkFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_sink_failures_total",
			Help: "Failed snapshot publications to status sinks.",
		}),
		AlertState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_alert_state",
			Help: "Current alert state, 0 for safe and 1 for alert.",
		}),
		DistanceCM: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_distance_cm",
			Help: "Last valid distance measurement in centimeters.",
		}),
	}

	registry.MustRegister(
		m.CyclesTotal,
		m.SensorFailuresTotal,
		m.ActuationFailuresTotal,
		m.SinkFailuresTotal,
		m.AlertState,
		m.DistanceCM,
	)

	return m
}

// ObserveCycle records the outcome of one completed polling cycle.
func (m *Metrics) ObserveCycle(snap watch.Snapshot) {
	m.CyclesTotal.Inc()

	if snap.State == watch.StateAlert {
		m.AlertState.Set(1)
	} else {
		m.AlertState.Set(0)
	}

	if snap.Reading.DistanceValid() {
		m.DistanceCM.Set(snap.Reading.DistanceCM)
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
