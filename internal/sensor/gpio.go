package sensor

import "errors"

// Pins names the BCM pins of the GPIO sensor assembly.
type Pins struct {
	// Motion is the PIR sensor data pin.
	Motion int
	// Trigger is the HC-SR04 trigger pin.
	Trigger int
	// Echo is the HC-SR04 echo pin.
	Echo int
}

var (
	// ErrGPIOUnsupported is returned by NewGPIO on targets without GPIO hardware.
	ErrGPIOUnsupported = errors.New("gpio sensor is not supported on this platform")
	// errNoSuchPin is returned when a configured BCM pin cannot be resolved.
	errNoSuchPin = errors.New("no such pin")
)
