// Package sensor provides the Port capability the monitoring loop acquires
// readings through, with two implementations: a Raspberry Pi GPIO driver
// (PIR motion + HC-SR04 ultrasonic, built on periph.io, available on
// linux/arm targets) and a software simulator for running off-device.
package sensor
