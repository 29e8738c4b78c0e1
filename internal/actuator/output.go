package actuator

import (
	"context"
	"errors"
	"sync"

	"github.com/okhramov/perimeter-sentinel/internal/logger"
)

// ErrGPIOUnsupported is returned by NewLED on targets without GPIO hardware.
var ErrGPIOUnsupported = errors.New("gpio output is not supported on this platform")

// Output drives the physical alert indicator. SetActive is level-oriented
// and idempotent from the caller's perspective; it is the alert controller's
// job not to flicker the output with redundant writes.
type Output interface {
	SetActive(ctx context.Context, active bool) error
	Close() error
}

// LogOutput is a no-hardware Output that records the requested level in the
// log. It is used with the simulated sensor driver and in tests.
type LogOutput struct {
	mu     sync.Mutex
	active bool
}

// NewLogOutput creates a LogOutput in the inactive state.
func NewLogOutput() *LogOutput {
	return &LogOutput{}
}

// SetActive records and logs the requested output level.
func (o *LogOutput) SetActive(ctx context.Context, active bool) error {
	o.mu.Lock()
	o.active = active
	o.mu.Unlock()

	logger.InfoKV(ctx, "Alert output level changed", "active", active)

	return nil
}

// Active reports the last requested level.
func (o *LogOutput) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.active
}

// Close releases nothing; the log output holds no resources.
func (o *LogOutput) Close() error {
	return nil
}
