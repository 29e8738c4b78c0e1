package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// SensorDriver selects which Port implementation the monitor runs with.
type SensorDriver string

const (
	// DriverSim is the software-simulated sensor, for running off-device.
	DriverSim SensorDriver = "sim"
	// DriverGPIO is the Raspberry Pi GPIO sensor (PIR + HC-SR04).
	DriverGPIO SensorDriver = "gpio"
)

// GPIOConfig names the BCM pins the hardware drivers use.
type GPIOConfig struct {
	// MotionPin is the PIR motion sensor input pin.
	MotionPin int `yaml:"motion_pin"`
	// TriggerPin is the ultrasonic sensor trigger output pin.
	TriggerPin int `yaml:"trigger_pin"`
	// EchoPin is the ultrasonic sensor echo input pin.
	EchoPin int `yaml:"echo_pin"`
	// AlertPin is the alert LED output pin.
	AlertPin int `yaml:"alert_pin"`
}

// MQTTConfig controls the optional remote snapshot sink.
type MQTTConfig struct {
	// BrokerURL is the broker address, e.g. "tcp://broker.local:1883".
	BrokerURL string `yaml:"broker_url"`
	// Topic is where snapshots are published.
	Topic string `yaml:"topic"`
	// ClientID identifies this monitor to the broker.
	ClientID string `yaml:"client_id"`
	// Enabled turns the MQTT sink on.
	Enabled bool `yaml:"enabled"`
}

// TelegramConfig controls the optional alert notification channel.
type TelegramConfig struct {
	// Token is the bot API token.
	Token string `yaml:"token"`
	// ChatID is the numeric chat the notifications go to.
	ChatID int64 `yaml:"chat_id"`
	// Enabled turns the Telegram notifier on.
	Enabled bool `yaml:"enabled"`
}

// Config holds all parameters of the monitor. They are fixed for the
// lifetime of the process.
type Config struct {
	// SensorDriver picks the sensor/actuator implementation.
	SensorDriver SensorDriver `yaml:"sensor_driver"`
	// HTTPAddress is the dashboard listen address.
	HTTPAddress string `yaml:"http_address"`
	// GPIO holds the pin assignments for the gpio driver.
	GPIO GPIOConfig `yaml:"gpio"`
	// MQTT configures the optional remote snapshot sink.
	MQTT MQTTConfig `yaml:"mqtt"`
	// Telegram configures the optional alert notifier.
	Telegram TelegramConfig `yaml:"telegram"`
	// DistanceThresholdCM is the intrusion distance threshold in cm.
	DistanceThresholdCM float64 `yaml:"distance_threshold_cm"`
	// CycleInterval is the fixed inter-cycle delay.
	CycleInterval time.Duration `yaml:"cycle_interval"`
	// SensorTimeout bounds a single sensor acquisition.
	SensorTimeout time.Duration `yaml:"sensor_timeout"`
	// RetryPause is the brief pause after a failed acquisition before the
	// next cycle.
	RetryPause time.Duration `yaml:"retry_pause"`
	// DiagnosticEvery emits a cycle summary log every Nth cycle.
	DiagnosticEvery uint64 `yaml:"diagnostic_every"`
}

const (
	// DefaultConfigFilename is the default configuration file name.
	DefaultConfigFilename = "sentinel-settings.yaml"

	// DefaultDistanceThresholdCM is the intrusion distance threshold.
	DefaultDistanceThresholdCM = 100.0

	// DefaultCycleInterval is the fixed delay between monitoring cycles.
	DefaultCycleInterval = 2 * time.Second

	// DefaultSensorTimeout bounds a single sensor acquisition.
	DefaultSensorTimeout = 1 * time.Second

	// DefaultRetryPause is taken after a failed acquisition.
	DefaultRetryPause = 1 * time.Second

	// DefaultDiagnosticEvery is the cycle summary interval.
	DefaultDiagnosticEvery = 10

	// DefaultHTTPAddress is where the dashboard listens.
	DefaultHTTPAddress = ":8080"

	// DefaultFilePermissions is the file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errThresholdRequired is returned when the distance threshold is missing or negative.
	errThresholdRequired = errors.New("distance threshold must be positive")
	// errUnknownDriver is returned for an unrecognized sensor driver.
	errUnknownDriver = errors.New("unknown sensor driver")
	// errMQTTIncomplete is returned when the MQTT sink is enabled without broker or topic.
	errMQTTIncomplete = errors.New("mqtt sink requires broker_url and topic")
	// errTelegramIncomplete is returned when the notifier is enabled without token or chat id.
	errTelegramIncomplete = errors.New("telegram notifier requires token and chat_id")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions: the file may carry a Telegram token.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills in defaults for omitted ones.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.DistanceThresholdCM == 0 {
		cfg.DistanceThresholdCM = DefaultDistanceThresholdCM
	}

	if cfg.DistanceThresholdCM < 0 {
		return errThresholdRequired
	}

	if cfg.SensorDriver == "" {
		cfg.SensorDriver = DriverSim
	}

	if cfg.SensorDriver != DriverSim && cfg.SensorDriver != DriverGPIO {
		return fmt.Errorf("%w: %q", errUnknownDriver, cfg.SensorDriver)
	}

	if cfg.CycleInterval <= 0 {
		cfg.CycleInterval = DefaultCycleInterval
	}

	if cfg.SensorTimeout <= 0 {
		cfg.SensorTimeout = DefaultSensorTimeout
	}

	if cfg.RetryPause <= 0 {
		cfg.RetryPause = DefaultRetryPause
	}

	if cfg.DiagnosticEvery == 0 {
		cfg.DiagnosticEvery = DefaultDiagnosticEvery
	}

	if cfg.HTTPAddress == "" {
		cfg.HTTPAddress = DefaultHTTPAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.HTTPAddress); err != nil {
		return fmt.Errorf("invalid http address: %w", err)
	}

	if cfg.MQTT.Enabled {
		if cfg.MQTT.BrokerURL == "" || cfg.MQTT.Topic == "" {
			return errMQTTIncomplete
		}

		if _, err := url.Parse(cfg.MQTT.BrokerURL); err != nil {
			return fmt.Errorf("invalid broker URL: %w", err)
		}

		if cfg.MQTT.ClientID == "" {
			cfg.MQTT.ClientID = "perimeter-sentinel"
		}
	}

	if cfg.Telegram.Enabled && (cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0) {
		return errTelegramIncomplete
	}

	return nil
}
