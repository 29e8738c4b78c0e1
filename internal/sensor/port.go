package sensor

import (
	"context"

	"github.com/okhramov/perimeter-sentinel/internal/domain/watch"
)

// Port acquires one reading per monitoring cycle.
//
// Acquire must honor context cancellation and deadlines: the loop bounds
// every call with a timeout, and a port that cannot answer in time returns
// an error instead of blocking. Optional fields (temperature, humidity)
// never cause a failure; implementations substitute neutral zero values
// when the climate probe is unavailable.
type Port interface {
	Acquire(ctx context.Context) (watch.Reading, error)
	Close() error
}
