// Package actuator provides the alert-output capability: a GPIO LED driver
// for the Raspberry Pi and a log-only stand-in for off-device runs.
package actuator
