package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/okhramov/perimeter-sentinel/internal/domain/watch"
)

// Sink consumes immutable status snapshots for local or remote rendering.
// Publish failures are reported to the caller for logging but must never
// abort a monitoring cycle; implementations must not block for long.
type Sink interface {
	Name() string
	Publish(ctx context.Context, snap watch.Snapshot) error
	Close() error
}

// ErrorReporter is implemented by sinks that can surface a fatal
// initialization error to the operator (the console screen does).
type ErrorReporter interface {
	ReportError(code string, err error)
}

// Multi fans each snapshot out to several sinks. Publish attempts every
// sink regardless of individual failures and returns them joined.
type Multi struct {
	sinks []Sink
}

// NewMulti combines sinks into one. Order matters for Close, which releases
// them in reverse.
func NewMulti(sinks ...Sink) *Multi {
	return &Multi{sinks: sinks}
}

// Name returns the fixed name of the fan-out sink.
func (m *Multi) Name() string {
	return "multi"
}

// Publish delivers the snapshot to every sink.
func (m *Multi) Publish(ctx context.Context, snap watch.Snapshot) error {
	var errs []error

	for _, s := range m.sinks {
		if err := s.Publish(ctx, snap); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}

	return errors.Join(errs...)
}

// Close releases the sinks in reverse-acquisition order.
func (m *Multi) Close() error {
	var errs []error

	for i := len(m.sinks) - 1; i >= 0; i-- {
		if err := m.sinks[i].Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", m.sinks[i].Name(), err))
		}
	}

	return errors.Join(errs...)
}
