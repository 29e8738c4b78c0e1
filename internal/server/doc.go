// Package server serves the monitor status dashboard over HTTP.
package server
