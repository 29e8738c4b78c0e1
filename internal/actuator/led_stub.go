//go:build !linux || (!arm && !arm64)

package actuator

import "context"

// LED is unavailable off the Raspberry Pi; NewLED refuses to construct it
// so the caller can fail initialization with a clear error.
type LED struct{}

// NewLED always fails on targets without GPIO hardware.
func NewLED(int) (*LED, error) {
	return nil, ErrGPIOUnsupported
}

// SetActive never runs; it exists to satisfy the Output interface.
func (l *LED) SetActive(context.Context, bool) error {
	return ErrGPIOUnsupported
}

// Close never runs; it exists to satisfy the Output interface.
func (l *LED) Close() error {
	return nil
}
