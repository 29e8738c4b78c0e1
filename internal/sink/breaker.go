package sink

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"github.com/okhramov/perimeter-sentinel/internal/domain/watch"
)

const (
	// breakerTripAfter is the number of consecutive publish failures that
	// opens the breaker.
	breakerTripAfter = 3
	// breakerOpenFor is how long publishes are skipped before probing the
	// sink again.
	breakerOpenFor = 30 * time.Second
)

// Breaker wraps a remote sink in a circuit breaker. When the sink fails
// repeatedly, publishes are skipped for a while instead of paying the
// failure latency every cycle; the snapshot stream is latest-wins, so the
// skipped frames are superseded anyway.
type Breaker struct {
	inner Sink
	cb    *gobreaker.CircuitBreaker
}

// NewBreaker wraps inner with the default trip policy.
func NewBreaker(inner Sink) *Breaker {
	return &Breaker{
		inner: inner,
		//nolint:exhaustruct // Unset gobreaker settings keep library defaults.
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    inner.Name(),
			Timeout: breakerOpenFor,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= breakerTripAfter
			},
		}),
	}
}

// Name returns the wrapped sink's name.
func (b *Breaker) Name() string {
	return b.inner.Name()
}

// Publish delivers through the breaker. While open it fails fast with
// gobreaker.ErrOpenState without touching the sink.
func (b *Breaker) Publish(ctx context.Context, snap watch.Snapshot) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.inner.Publish(ctx, snap)
	})

	return err
}

// Close releases the wrapped sink.
func (b *Breaker) Close() error {
	return b.inner.Close()
}
