package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields, defaults, and format validations.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Empty config gets defaults.
	cfg := new(Config)
	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultDistanceThresholdCM, cfg.DistanceThresholdCM)
	require.Equal(t, DefaultCycleInterval, cfg.CycleInterval)
	require.Equal(t, DefaultSensorTimeout, cfg.SensorTimeout)
	require.Equal(t, DefaultRetryPause, cfg.RetryPause)
	require.Equal(t, uint64(DefaultDiagnosticEvery), cfg.DiagnosticEvery)
	require.Equal(t, DefaultHTTPAddress, cfg.HTTPAddress)
	require.Equal(t, DriverSim, cfg.SensorDriver)

	// Negative threshold.
	cfg = &Config{DistanceThresholdCM: -5}
	require.Error(t, Validate(cfg))

	// Unknown driver.
	cfg = &Config{SensorDriver: "lidar"}
	require.Error(t, Validate(cfg))

	// Bad http address.
	cfg = &Config{HTTPAddress: "not:an:address"}
	require.Error(t, Validate(cfg))

	// MQTT enabled without broker.
	cfg = &Config{MQTT: MQTTConfig{Enabled: true, Topic: "sentinel/status"}}
	require.Error(t, Validate(cfg))

	// MQTT enabled gets a default client id.
	cfg = &Config{MQTT: MQTTConfig{
		Enabled:   true,
		BrokerURL: "tcp://127.0.0.1:1883",
		Topic:     "sentinel/status",
	}}
	require.NoError(t, Validate(cfg))
	require.NotEmpty(t, cfg.MQTT.ClientID)

	// Telegram enabled without chat id.
	cfg = &Config{Telegram: TelegramConfig{Enabled: true, Token: "x"}}
	require.Error(t, Validate(cfg))

	// Nil config.
	require.Error(t, Validate(nil))
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		DistanceThresholdCM: 75,
		CycleInterval:       500 * time.Millisecond,
		DiagnosticEvery:     5,
		SensorDriver:        DriverGPIO,
		HTTPAddress:         "127.0.0.1:9090",
		GPIO: GPIOConfig{
			MotionPin:  17,
			TriggerPin: 23,
			EchoPin:    24,
			AlertPin:   25,
		},
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.DistanceThresholdCM, loaded.DistanceThresholdCM)
	require.Equal(t, cfg.CycleInterval, loaded.CycleInterval)
	require.Equal(t, cfg.SensorDriver, loaded.SensorDriver)
	require.Equal(t, cfg.GPIO, loaded.GPIO)

	// Missing file.
	_, err = Load(filepath.Join(dir, "absent.yaml"))
	require.Error(t, err)
}
