package alert

import (
	"context"
	"errors"
	"fmt"

	"github.com/okhramov/perimeter-sentinel/internal/actuator"
	"github.com/okhramov/perimeter-sentinel/internal/domain/watch"
)

// Controller owns the SAFE/ALERT alert state and drives the physical alert
// output from per-cycle intrusion verdicts.
//
// Transitions are level-triggered with no debounce: the current cycle's
// verdict alone decides the state. The output is only written on actual
// transitions, so holding a verdict does not flicker the hardware.
//
// The controller is owned by the monitoring loop's single goroutine; it is
// not safe for concurrent use.
type Controller struct {
	out   actuator.Output
	state watch.State
	// closed marks that Cleanup already released the output.
	closed bool
}

// NewController creates a controller in the SAFE state.
func NewController(out actuator.Output) *Controller {
	return &Controller{
		out:   out,
		state: watch.StateSafe,
	}
}

// Update commits the state implied by the verdict and drives the output on
// transitions. The logical state change always takes effect; the returned
// error reports actuation failure only and is non-fatal — the caller logs
// it and continues, keeping logical state authoritative even when the
// physical layer is degraded.
func (c *Controller) Update(ctx context.Context, verdict bool) (watch.State, error) {
	next := watch.StateFromVerdict(verdict)
	if next == c.state {
		// Idempotent re-assert: no transition, no hardware write.
		return c.state, nil
	}

	c.state = next

	if err := c.out.SetActive(ctx, verdict); err != nil {
		return c.state, fmt.Errorf("drive alert output: %w", err)
	}

	return c.state, nil
}

// State returns the current alert state.
func (c *Controller) State() watch.State {
	return c.state
}

// Cleanup forces the output to the deactivated level and releases it.
// It is called on every exit path and is safe to call more than once.
func (c *Controller) Cleanup(ctx context.Context) error {
	if c.closed {
		return nil
	}

	c.closed = true
	c.state = watch.StateSafe

	var errs []error

	if err := c.out.SetActive(ctx, false); err != nil {
		errs = append(errs, fmt.Errorf("deactivate alert output: %w", err))
	}

	if err := c.out.Close(); err != nil {
		errs = append(errs, fmt.Errorf("release alert output: %w", err))
	}

	return errors.Join(errs...)
}
