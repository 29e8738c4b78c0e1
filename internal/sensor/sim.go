package sensor

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/okhramov/perimeter-sentinel/internal/domain/watch"
)

const (
	simMinDistanceCM = 5
	simMaxDistanceCM = 400
	simMaxStepCM     = 25
)

// Simulator is a software Port that produces a plausible stream of readings:
// the distance performs a bounded random walk and motion arrives in short
// bursts. It lets the full binary run on a machine without GPIO hardware.
type Simulator struct {
	rng *rand.Rand
	mu  sync.Mutex
	// distanceCM is the current point of the random walk.
	distanceCM float64
	// motionLeft counts remaining cycles of the current motion burst.
	motionLeft int
}

// NewSimulator creates a simulator. A non-zero seed makes the stream
// reproducible; zero seeds from the current time.
func NewSimulator(seed int64) *Simulator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Simulator{
		rng:        rand.New(rand.NewSource(seed)), //nolint:gosec // Simulated sensor data, not cryptography.
		distanceCM: 200,
	}
}

// Acquire returns the next simulated reading.
func (s *Simulator) Acquire(ctx context.Context) (watch.Reading, error) {
	if err := ctx.Err(); err != nil {
		return watch.Reading{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Random walk, clamped to the sensor's plausible range.
	s.distanceCM += (s.rng.Float64()*2 - 1) * simMaxStepCM
	if s.distanceCM < simMinDistanceCM {
		s.distanceCM = simMinDistanceCM
	}

	if s.distanceCM > simMaxDistanceCM {
		s.distanceCM = simMaxDistanceCM
	}

	// Motion arrives in bursts of a few cycles.
	if s.motionLeft == 0 && s.rng.Float64() < 0.15 {
		s.motionLeft = 1 + s.rng.Intn(4)
	}

	motion := s.motionLeft > 0
	if motion {
		s.motionLeft--
	}

	return watch.Reading{
		Motion:       motion,
		DistanceCM:   s.distanceCM,
		TemperatureC: 21 + s.rng.Float64()*3,
		HumidityPct:  40 + s.rng.Float64()*10,
		Timestamp:    time.Now(),
	}, nil
}

// Close releases nothing; the simulator holds no resources.
func (s *Simulator) Close() error {
	return nil
}
