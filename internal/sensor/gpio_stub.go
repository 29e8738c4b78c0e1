//go:build !linux || (!arm && !arm64)

package sensor

import (
	"context"

	"github.com/okhramov/perimeter-sentinel/internal/domain/watch"
)

// GPIO is unavailable off the Raspberry Pi; NewGPIO refuses to construct it
// so the caller can fail initialization with a clear error.
type GPIO struct{}

// NewGPIO always fails on targets without GPIO hardware.
func NewGPIO(Pins) (*GPIO, error) {
	return nil, ErrGPIOUnsupported
}

// Acquire never runs; it exists to satisfy the Port interface.
func (g *GPIO) Acquire(context.Context) (watch.Reading, error) {
	return watch.Reading{}, ErrGPIOUnsupported
}

// Close never runs; it exists to satisfy the Port interface.
func (g *GPIO) Close() error {
	return nil
}
