package sensor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSimulatorProducesValidReadings checks ranges and reproducibility.
func TestSimulatorProducesValidReadings(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sim := NewSimulator(42)

	for i := 0; i < 100; i++ {
		r, err := sim.Acquire(ctx)
		require.NoError(t, err)
		require.True(t, r.DistanceValid())
		require.GreaterOrEqual(t, r.DistanceCM, float64(simMinDistanceCM))
		require.LessOrEqual(t, r.DistanceCM, float64(simMaxDistanceCM))
		require.False(t, r.Timestamp.IsZero())
	}

	// Same seed, same distance walk.
	a, b := NewSimulator(7), NewSimulator(7)

	ra, err := a.Acquire(ctx)
	require.NoError(t, err)

	rb, err := b.Acquire(ctx)
	require.NoError(t, err)

	require.Equal(t, ra.DistanceCM, rb.DistanceCM)
	require.Equal(t, ra.Motion, rb.Motion)
}

// TestSimulatorHonorsContext ensures a canceled context aborts acquisition.
func TestSimulatorHonorsContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSimulator(1).Acquire(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
