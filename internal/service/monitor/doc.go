// Package monitor implements the perimeter monitoring loop and the
// process wiring for the sentinel binary.
package monitor
