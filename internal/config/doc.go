// Package config defines the monitor's settings and provides helpers to
// load, validate and save them in YAML format.
//
// All parameters are fixed for the lifetime of the process: the distance
// threshold, the cycle cadence, the sensor driver and pins, the dashboard
// address, and the optional MQTT/Telegram integrations.
package config
