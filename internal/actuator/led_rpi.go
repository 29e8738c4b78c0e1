//go:build linux && (arm || arm64)

package actuator

import (
	"context"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// LED drives the alert LED through a Raspberry Pi GPIO pin (BCM numbering).
type LED struct {
	pin gpio.PinOut
}

// NewLED initialises periph host state, claims the pin and forces it low.
func NewLED(pinNumber int) (*LED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init gpio host: %w", err)
	}

	p := gpioreg.ByName(fmt.Sprintf("GPIO%d", pinNumber))
	if p == nil {
		return nil, fmt.Errorf("alert pin: no such pin GPIO%d", pinNumber)
	}

	if err := p.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("alert pin: %w", err)
	}

	return &LED{pin: p}, nil
}

// SetActive raises or lowers the LED pin.
func (l *LED) SetActive(_ context.Context, active bool) error {
	if err := l.pin.Out(gpio.Level(active)); err != nil {
		return fmt.Errorf("write alert pin: %w", err)
	}

	return nil
}

// Close forces the LED off before releasing it.
func (l *LED) Close() error {
	return l.pin.Out(gpio.Low)
}
