//go:build linux && (arm || arm64)

package sensor

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/okhramov/perimeter-sentinel/internal/domain/watch"
)

const (
	// triggerPulse is the HC-SR04 trigger pulse width.
	triggerPulse = 10 * time.Microsecond
	// echoTimeout bounds the wait for each echo edge. The sensor's
	// maximum range (~4 m) corresponds to a ~24 ms round trip.
	echoTimeout = 30 * time.Millisecond
	// soundCMPerSec is the speed of sound halved, to account for the
	// round trip of the ultrasonic pulse.
	soundCMPerSec = 17150.0
)

// GPIO reads a PIR motion sensor and an HC-SR04 ultrasonic ranger through
// the Raspberry Pi GPIO header. Pins are addressed by BCM numbers.
type GPIO struct {
	motion  gpio.PinIn
	trigger gpio.PinOut
	echo    gpio.PinIn
}

// NewGPIO initialises periph host state and claims the configured pins.
func NewGPIO(pins Pins) (*GPIO, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init gpio host: %w", err)
	}

	motion, err := pinIn(pins.Motion, gpio.PullDown)
	if err != nil {
		return nil, fmt.Errorf("motion pin: %w", err)
	}

	trigger := gpioreg.ByName(fmt.Sprintf("GPIO%d", pins.Trigger))
	if trigger == nil {
		return nil, fmt.Errorf("%w: GPIO%d", errNoSuchPin, pins.Trigger)
	}

	if err := trigger.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("trigger pin: %w", err)
	}

	echo, err := pinIn(pins.Echo, gpio.PullDown)
	if err != nil {
		return nil, fmt.Errorf("echo pin: %w", err)
	}

	return &GPIO{
		motion:  motion,
		trigger: trigger,
		echo:    echo,
	}, nil
}

// Acquire performs one full sensor read: PIR level, then an ultrasonic
// range measurement. A missing echo yields the invalid-distance sentinel,
// not an error; only a broken trigger write fails the acquisition.
func (g *GPIO) Acquire(ctx context.Context) (watch.Reading, error) {
	if err := ctx.Err(); err != nil {
		return watch.Reading{}, err
	}

	motion := g.motion.Read() == gpio.High

	distance, err := g.measureDistance()
	if err != nil {
		return watch.Reading{}, err
	}

	// No DHT probe is wired on this header; climate fields stay neutral.
	return watch.Reading{
		Motion:     motion,
		DistanceCM: distance,
		Timestamp:  time.Now(),
	}, nil
}

// measureDistance fires the HC-SR04 trigger and times the echo pulse.
func (g *GPIO) measureDistance() (float64, error) {
	if err := g.echo.In(gpio.PullDown, gpio.BothEdges); err != nil {
		return 0, fmt.Errorf("arm echo pin: %w", err)
	}

	if err := g.trigger.Out(gpio.High); err != nil {
		return 0, fmt.Errorf("raise trigger: %w", err)
	}

	time.Sleep(triggerPulse)

	if err := g.trigger.Out(gpio.Low); err != nil {
		return 0, fmt.Errorf("lower trigger: %w", err)
	}

	// Rising edge: pulse left the transducer.
	if !g.echo.WaitForEdge(echoTimeout) {
		return watch.DistanceInvalid, nil
	}

	start := time.Now()

	// Falling edge: echo returned. A timeout means the object is out of
	// range, which is a valid "no reading" outcome.
	if !g.echo.WaitForEdge(echoTimeout) {
		return watch.DistanceInvalid, nil
	}

	return time.Since(start).Seconds() * soundCMPerSec, nil
}

// Close releases the pins by halting edge detection.
func (g *GPIO) Close() error {
	return g.echo.In(gpio.PullNoChange, gpio.NoEdge)
}

// pinIn resolves a BCM pin and configures it for input.
func pinIn(number int, pull gpio.Pull) (gpio.PinIn, error) {
	p := gpioreg.ByName(fmt.Sprintf("GPIO%d", number))
	if p == nil {
		return nil, fmt.Errorf("%w: GPIO%d", errNoSuchPin, number)
	}

	if err := p.In(pull, gpio.NoEdge); err != nil {
		return nil, err
	}

	return p, nil
}
