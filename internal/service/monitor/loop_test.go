package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/okhramov/perimeter-sentinel/internal/actuator"
	"github.com/okhramov/perimeter-sentinel/internal/alert"
	"github.com/okhramov/perimeter-sentinel/internal/domain/watch"
	"github.com/okhramov/perimeter-sentinel/internal/metrics"
	"github.com/okhramov/perimeter-sentinel/internal/notify"
	"github.com/okhramov/perimeter-sentinel/internal/sink"
)

// scriptStep is one planned acquisition outcome.
type scriptStep struct {
	reading watch.Reading
	err     error
}

// scriptedPort replays a fixed sequence of acquisition outcomes and
// cancels the loop once the script runs out.
type scriptedPort struct {
	steps  []scriptStep
	cancel context.CancelFunc
	closed bool
}

func (p *scriptedPort) Acquire(ctx context.Context) (watch.Reading, error) {
	if len(p.steps) == 0 {
		p.cancel()

		return watch.Reading{}, ctx.Err()
	}

	step := p.steps[0]
	p.steps = p.steps[1:]

	return step.reading, step.err
}

func (p *scriptedPort) Close() error {
	p.closed = true

	return nil
}

// recordingSink collects every published snapshot.
type recordingSink struct {
	snaps  []watch.Snapshot
	fail   bool
	closed bool
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Publish(_ context.Context, snap watch.Snapshot) error {
	s.snaps = append(s.snaps, snap)

	if s.fail {
		return errors.New("sink unavailable")
	}

	return nil
}

func (s *recordingSink) Close() error {
	s.closed = true

	return nil
}

// failingOutput always rejects hardware writes.
type failingOutput struct{}

func (failingOutput) SetActive(context.Context, bool) error {
	return errors.New("gpio write failed")
}

func (failingOutput) Close() error { return nil }

// recordingNotifier collects transition notifications.
type recordingNotifier struct {
	snaps []watch.Snapshot
}

func (n *recordingNotifier) Name() string { return "recording" }

func (n *recordingNotifier) Send(_ context.Context, snap watch.Snapshot) error {
	n.snaps = append(n.snaps, snap)

	return nil
}

// runScripted executes a loop over the scripted outcomes until the
// script is exhausted, using zero delays so tests finish immediately.
func runScripted(t *testing.T, steps []scriptStep, out actuator.Output, s sink.Sink, notifiers []notify.Notifier) (*Loop, *scriptedPort, error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	port := &scriptedPort{steps: steps, cancel: cancel}

	loop := NewLoop(LoopParams{
		Port:                port,
		Alert:               alert.NewController(out),
		Sink:                s,
		Notifiers:           notifiers,
		Metrics:             metrics.New(),
		Latest:              NewLatestHolder(),
		DistanceThresholdCM: 100,
		SensorTimeout:       50 * time.Millisecond,
	})

	err := loop.Run(ctx)

	return loop, port, err
}

func TestLoopRaisesAndClearsAlert(t *testing.T) {
	t.Parallel()

	steps := []scriptStep{
		{reading: watch.Reading{Motion: false, DistanceCM: 300}},
		{reading: watch.Reading{Motion: true, DistanceCM: 40}},
		{reading: watch.Reading{Motion: true, DistanceCM: 40}},
		{reading: watch.Reading{Motion: false, DistanceCM: 300}},
	}

	recorder := &recordingSink{}
	notifier := &recordingNotifier{}

	_, port, err := runScripted(t, steps, actuator.NewLogOutput(), recorder, []notify.Notifier{notifier})
	require.NoError(t, err)
	require.True(t, port.closed)
	require.True(t, recorder.closed)

	// Starting snapshot, four cycles, stopped snapshot.
	require.Len(t, recorder.snaps, 6)
	require.Equal(t, watch.PhaseStarting, recorder.snaps[0].Phase)
	require.Equal(t, watch.PhaseStopped, recorder.snaps[5].Phase)

	states := make([]watch.State, 0, 4)
	for _, snap := range recorder.snaps[1:5] {
		require.Equal(t, watch.PhaseRunning, snap.Phase)
		states = append(states, snap.State)
	}

	require.Equal(t, []watch.State{watch.StateSafe, watch.StateAlert, watch.StateAlert, watch.StateSafe}, states)

	// Only the two transitions notify, not the held alert.
	require.Len(t, notifier.snaps, 2)
	require.Equal(t, watch.StateAlert, notifier.snaps[0].State)
	require.Equal(t, watch.StateSafe, notifier.snaps[1].State)

	// Cycle numbers are strictly sequential.
	for i, snap := range recorder.snaps[1:5] {
		require.Equal(t, uint64(i+1), snap.Cycle)
	}
}

func TestLoopSkipsCycleOnSensorFailure(t *testing.T) {
	t.Parallel()

	steps := []scriptStep{
		{reading: watch.Reading{Motion: false, DistanceCM: 300}},
		{err: errors.New("sensor wedged")},
		{reading: watch.Reading{Motion: false, DistanceCM: 300}},
	}

	recorder := &recordingSink{}

	loop, _, err := runScripted(t, steps, actuator.NewLogOutput(), recorder, nil)
	require.NoError(t, err)

	// The failed acquisition produced no snapshot and no cycle number.
	require.Len(t, recorder.snaps, 4)
	require.Equal(t, uint64(1), recorder.snaps[1].Cycle)
	require.Equal(t, uint64(2), recorder.snaps[2].Cycle)
	require.Equal(t, uint64(2), loop.cycle)
}

func TestLoopInvalidDistanceIsNeutral(t *testing.T) {
	t.Parallel()

	steps := []scriptStep{
		{reading: watch.Reading{Motion: true, DistanceCM: watch.DistanceInvalid}},
	}

	recorder := &recordingSink{}

	_, _, err := runScripted(t, steps, actuator.NewLogOutput(), recorder, nil)
	require.NoError(t, err)

	// Motion with no valid distance still completes the cycle, safely.
	require.Equal(t, watch.StateSafe, recorder.snaps[1].State)
	require.Equal(t, uint64(1), recorder.snaps[1].Cycle)
}

func TestLoopSurvivesActuationFailure(t *testing.T) {
	t.Parallel()

	steps := []scriptStep{
		{reading: watch.Reading{Motion: true, DistanceCM: 40}},
		{reading: watch.Reading{Motion: true, DistanceCM: 40}},
	}

	recorder := &recordingSink{}

	_, _, err := runScripted(t, steps, failingOutput{}, recorder, nil)
	require.NoError(t, err)

	// Logical state stays authoritative even when the hardware write fails.
	require.Equal(t, watch.StateAlert, recorder.snaps[1].State)
	require.Equal(t, watch.StateAlert, recorder.snaps[2].State)
}

func TestLoopSurvivesSinkFailure(t *testing.T) {
	t.Parallel()

	steps := []scriptStep{
		{reading: watch.Reading{Motion: false, DistanceCM: 300}},
		{reading: watch.Reading{Motion: false, DistanceCM: 300}},
	}

	recorder := &recordingSink{fail: true}

	loop, _, err := runScripted(t, steps, actuator.NewLogOutput(), recorder, nil)
	require.NoError(t, err)
	require.Equal(t, uint64(2), loop.cycle)
}

func TestLoopPublishesLatestSnapshot(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	port := &scriptedPort{
		steps:  []scriptStep{{reading: watch.Reading{Motion: true, DistanceCM: 40}}},
		cancel: cancel,
	}
	latest := NewLatestHolder()

	_, ok := latest.Latest()
	require.False(t, ok)

	loop := NewLoop(LoopParams{
		Port:                port,
		Alert:               alert.NewController(actuator.NewLogOutput()),
		Sink:                &recordingSink{},
		Metrics:             metrics.New(),
		Latest:              latest,
		DistanceThresholdCM: 100,
		SensorTimeout:       50 * time.Millisecond,
	})

	require.NoError(t, loop.Run(ctx))

	snap, ok := latest.Latest()
	require.True(t, ok)
	require.Equal(t, watch.PhaseStopped, snap.Phase)
}
