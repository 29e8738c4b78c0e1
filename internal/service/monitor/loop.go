package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okhramov/perimeter-sentinel/internal/alert"
	"github.com/okhramov/perimeter-sentinel/internal/domain/watch"
	"github.com/okhramov/perimeter-sentinel/internal/logger"
	"github.com/okhramov/perimeter-sentinel/internal/metrics"
	"github.com/okhramov/perimeter-sentinel/internal/notify"
	"github.com/okhramov/perimeter-sentinel/internal/sensor"
	"github.com/okhramov/perimeter-sentinel/internal/sink"
)

// notifyTimeout bounds a single notification delivery so a slow channel
// cannot stall the polling cadence for long.
const notifyTimeout = 5 * time.Second

// LoopParams carries everything the monitoring loop needs.
type LoopParams struct {
	Port      sensor.Port
	Alert     *alert.Controller
	Sink      sink.Sink
	Notifiers []notify.Notifier
	Metrics   *metrics.Metrics
	Latest    *LatestHolder

	DistanceThresholdCM float64
	CycleInterval       time.Duration
	SensorTimeout       time.Duration
	RetryPause          time.Duration
	DiagnosticEvery     uint64
}

// Loop runs the fixed-cadence monitoring cycle: acquire a reading,
// evaluate it, drive the alert state, publish a snapshot, sleep.
// Everything happens on the single goroutine that calls Run; only the
// LatestHolder crosses to other goroutines.
type Loop struct {
	params LoopParams
	cycle  uint64
}

// NewLoop creates a monitoring loop. It does not start anything.
func NewLoop(params LoopParams) *Loop {
	return &Loop{params: params}
}

// Run executes cycles until ctx is canceled, then releases the hardware
// and publishes a final stopped snapshot. It returns the joined shutdown
// errors; per-cycle failures are logged and absorbed, never returned.
func (l *Loop) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "monitor")

	logger.InfoKV(ctx, "Monitoring started",
		"threshold_cm", l.params.DistanceThresholdCM,
		"cycle_interval", l.params.CycleInterval)

	l.publish(ctx, l.snapshot(watch.PhaseStarting, watch.Reading{DistanceCM: watch.DistanceInvalid}))

	for ctx.Err() == nil {
		l.runCycle(ctx)
	}

	return l.shutdown(ctx)
}

// runCycle performs one acquire-evaluate-actuate-publish pass.
func (l *Loop) runCycle(ctx context.Context) {
	reading, err := l.acquire(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}

		// A cycle without a reading produces nothing: no evaluation, no
		// snapshot, and the cycle counter stays put. Pause briefly so a
		// wedged sensor does not turn the loop into a busy spin.
		logger.WarnKV(ctx, "Sensor acquisition failed", "error", err)
		l.params.Metrics.SensorFailuresTotal.Inc()
		sleepCtx(ctx, l.params.RetryPause)

		return
	}

	verdict := watch.Evaluate(reading, l.params.DistanceThresholdCM)
	previous := l.params.Alert.State()

	state, err := l.params.Alert.Update(ctx, verdict)
	if err != nil {
		// Logical state is already committed; a dead LED must not stop
		// the monitor.
		logger.ErrorKV(ctx, "Alert actuation failed", "error", err, "state", state)
		l.params.Metrics.ActuationFailuresTotal.Inc()
	}

	l.cycle++
	snap := l.snapshot(watch.PhaseRunning, reading)

	l.params.Metrics.ObserveCycle(snap)
	l.publish(ctx, snap)

	if state != previous {
		logger.InfoKV(ctx, "Alert state changed", "from", previous, "to", state, "cycle", l.cycle)
		l.notifyTransition(ctx, snap)
	}

	if n := l.params.DiagnosticEvery; n > 0 && l.cycle%n == 0 {
		logger.InfoKV(ctx, "Cycle summary",
			"cycle", l.cycle,
			"state", state,
			"distance_cm", reading.DistanceCM,
			"motion", reading.Motion,
			"temperature_c", reading.TemperatureC,
			"humidity_pct", reading.HumidityPct)
	}

	sleepCtx(ctx, l.params.CycleInterval)
}

// acquire takes one reading under the per-cycle sensor timeout.
func (l *Loop) acquire(ctx context.Context) (watch.Reading, error) {
	acquireCtx, cancel := context.WithTimeout(ctx, l.params.SensorTimeout)
	defer cancel()

	reading, err := l.params.Port.Acquire(acquireCtx)
	if err != nil {
		return watch.Reading{}, fmt.Errorf("acquire reading: %w", err)
	}

	return reading, nil
}

// publish ships a snapshot to the dashboard holder and the sinks.
// Sink failures are logged and counted, never propagated.
func (l *Loop) publish(ctx context.Context, snap watch.Snapshot) {
	l.params.Latest.Store(snap)

	if err := l.params.Sink.Publish(ctx, snap); err != nil {
		logger.WarnKV(ctx, "Snapshot publication failed", "error", err)
		l.params.Metrics.SinkFailuresTotal.Inc()
	}
}

// notifyTransition delivers the transition to every notifier. Deliveries
// run synchronously with a per-call timeout; a failed channel is logged
// and skipped.
func (l *Loop) notifyTransition(ctx context.Context, snap watch.Snapshot) {
	for _, n := range l.params.Notifiers {
		sendCtx, cancel := context.WithTimeout(ctx, notifyTimeout)

		if err := n.Send(sendCtx, snap); err != nil {
			logger.WarnKV(ctx, "Notification failed", "notifier", n.Name(), "error", err)
		}

		cancel()
	}
}

// shutdown releases the hardware and announces the stop to the sinks.
// It uses a detached context so cancellation cannot skip the cleanup.
func (l *Loop) shutdown(ctx context.Context) error {
	logger.Info(ctx, "Monitoring stopping")

	stopCtx := context.WithoutCancel(ctx)

	var errs []error

	if err := l.params.Alert.Cleanup(stopCtx); err != nil {
		errs = append(errs, fmt.Errorf("cleanup alert: %w", err))
	}

	if err := l.params.Port.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close sensor port: %w", err))
	}

	l.publish(stopCtx, l.snapshot(watch.PhaseStopped, watch.Reading{DistanceCM: watch.DistanceInvalid}))

	if err := l.params.Sink.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close sinks: %w", err))
	}

	logger.InfoKV(ctx, "Monitoring stopped", "cycles", l.cycle)

	return errors.Join(errs...)
}

// snapshot builds the immutable status view for the current cycle.
func (l *Loop) snapshot(phase watch.Phase, reading watch.Reading) watch.Snapshot {
	return watch.Snapshot{
		GeneratedAt: time.Now().UTC(),
		Phase:       phase,
		State:       l.params.Alert.State(),
		Reading:     reading,
		Cycle:       l.cycle,
	}
}

// sleepCtx waits for the duration or until ctx is canceled, whichever
// comes first.
func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
