// Package metrics exposes the monitor's Prometheus instrumentation.
package metrics
