package watch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	t.Parallel()

	const threshold = 100.0

	tests := []struct {
		name    string
		reading Reading
		want    bool
	}{
		{
			name:    "motion and close distance alerts",
			reading: Reading{Motion: true, DistanceCM: 42},
			want:    true,
		},
		{
			name:    "motion without proximity is safe",
			reading: Reading{Motion: true, DistanceCM: 250},
			want:    false,
		},
		{
			name:    "proximity without motion is safe",
			reading: Reading{Motion: false, DistanceCM: 42},
			want:    false,
		},
		{
			name:    "distance exactly at threshold is safe",
			reading: Reading{Motion: true, DistanceCM: threshold},
			want:    false,
		},
		{
			name:    "invalid distance never alerts",
			reading: Reading{Motion: true, DistanceCM: DistanceInvalid},
			want:    false,
		},
		{
			name:    "zero distance with motion alerts",
			reading: Reading{Motion: true, DistanceCM: 0},
			want:    true,
		},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.want, Evaluate(tc.reading, threshold))
			// Evaluation is pure: repeating it cannot change the verdict.
			require.Equal(t, tc.want, Evaluate(tc.reading, threshold))
		})
	}
}

func TestDistanceValid(t *testing.T) {
	t.Parallel()

	require.True(t, Reading{DistanceCM: 0}.DistanceValid())
	require.True(t, Reading{DistanceCM: 371.4}.DistanceValid())
	require.False(t, Reading{DistanceCM: DistanceInvalid}.DistanceValid())
}

func TestStateFromVerdict(t *testing.T) {
	t.Parallel()

	require.Equal(t, StateAlert, StateFromVerdict(true))
	require.Equal(t, StateSafe, StateFromVerdict(false))
}
