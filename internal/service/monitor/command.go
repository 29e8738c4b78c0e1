package monitor

import (
	"context"
	"fmt"
	"os"

	"github.com/okhramov/perimeter-sentinel/internal/actuator"
	"github.com/okhramov/perimeter-sentinel/internal/alert"
	"github.com/okhramov/perimeter-sentinel/internal/config"
	"github.com/okhramov/perimeter-sentinel/internal/logger"
	"github.com/okhramov/perimeter-sentinel/internal/metrics"
	"github.com/okhramov/perimeter-sentinel/internal/notify"
	"github.com/okhramov/perimeter-sentinel/internal/sensor"
	"github.com/okhramov/perimeter-sentinel/internal/server"
	"github.com/okhramov/perimeter-sentinel/internal/sink"
)

// Options controls the sentinel monitor process.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// HTTPAddress provides an optional listen address override for the
	// status dashboard.
	HTTPAddress string
	// PlainConsole disables the ANSI screen repaint and prints status
	// lines append-only.
	PlainConsole bool
}

// Run wires the monitor from configuration and blocks until the context
// is canceled or startup fails. Initialization failures are painted on
// the console before being returned, so an operator watching the screen
// sees why the process refuses to start.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "sentinel")

	console := sink.NewConsole(os.Stdout, !opts.PlainConsole)

	err := run(ctx, opts, console)
	if err != nil && ctx.Err() == nil {
		console.ReportError("INIT_ERROR", err)
	}

	return err
}

func run(ctx context.Context, opts *Options, console *sink.Console) error {
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	httpAddress := settings.HTTPAddress
	if opts.HTTPAddress != "" {
		httpAddress = opts.HTTPAddress
	}

	port, output, err := buildDriver(settings)
	if err != nil {
		return fmt.Errorf("initialise %s driver: %w", settings.SensorDriver, err)
	}

	controller := alert.NewController(output)

	sinks := []sink.Sink{console}

	if settings.MQTT.Enabled {
		remote, mqttErr := sink.NewMQTT(ctx, sink.MQTTOptions{
			BrokerURL: settings.MQTT.BrokerURL,
			Topic:     settings.MQTT.Topic,
			ClientID:  settings.MQTT.ClientID,
		})
		if mqttErr != nil {
			release(ctx, controller, port, sinks)

			return fmt.Errorf("connect mqtt sink: %w", mqttErr)
		}

		// The breaker keeps a flapping broker from slowing every cycle.
		sinks = append(sinks, sink.NewBreaker(remote))
	}

	notifiers := []notify.Notifier{notify.NewLogNotifier()}

	if settings.Telegram.Enabled {
		tg, tgErr := notify.NewTelegram(settings.Telegram.Token, settings.Telegram.ChatID)
		if tgErr != nil {
			release(ctx, controller, port, sinks)

			return fmt.Errorf("initialise telegram notifier: %w", tgErr)
		}

		notifiers = append(notifiers, tg)
	}

	m := metrics.New()
	latest := NewLatestHolder()

	loop := NewLoop(LoopParams{
		Port:                port,
		Alert:               controller,
		Sink:                sink.NewMulti(sinks...),
		Notifiers:           notifiers,
		Metrics:             m,
		Latest:              latest,
		DistanceThresholdCM: settings.DistanceThresholdCM,
		CycleInterval:       settings.CycleInterval,
		SensorTimeout:       settings.SensorTimeout,
		RetryPause:          settings.RetryPause,
		DiagnosticEvery:     settings.DiagnosticEvery,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv, srvErr := server.New(ctx, httpAddress, latest, m.Handler())
	if srvErr != nil {
		release(ctx, controller, port, sinks)

		return fmt.Errorf("start status server: %w", srvErr)
	}

	go func() {
		if serveErr := srv.Run(ctx); serveErr != nil {
			logger.ErrorKV(ctx, "Status server failed", "error", serveErr)
			cancel()
		}
	}()

	return loop.Run(ctx)
}

// release tears down components wired so far when startup fails, in
// reverse-acquisition order: alert output first, then the sensor port,
// then the sinks.
func release(ctx context.Context, controller *alert.Controller, port sensor.Port, sinks []sink.Sink) {
	_ = controller.Cleanup(ctx)
	_ = port.Close()

	for i := len(sinks) - 1; i >= 0; i-- {
		_ = sinks[i].Close()
	}
}

// buildDriver picks the sensor port and alert output for the configured
// driver. The sim pair runs anywhere; the gpio pair needs Raspberry Pi
// hardware and fails on other targets.
func buildDriver(settings *config.Config) (sensor.Port, actuator.Output, error) {
	switch settings.SensorDriver {
	case config.DriverSim:
		return sensor.NewSimulator(0), actuator.NewLogOutput(), nil
	case config.DriverGPIO:
		port, err := sensor.NewGPIO(sensor.Pins{
			Motion:  settings.GPIO.MotionPin,
			Trigger: settings.GPIO.TriggerPin,
			Echo:    settings.GPIO.EchoPin,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open gpio sensor: %w", err)
		}

		output, err := actuator.NewLED(settings.GPIO.AlertPin)
		if err != nil {
			_ = port.Close()

			return nil, nil, fmt.Errorf("open alert led: %w", err)
		}

		return port, output, nil
	default:
		return nil, nil, fmt.Errorf("unsupported sensor driver %q", settings.SensorDriver)
	}
}
