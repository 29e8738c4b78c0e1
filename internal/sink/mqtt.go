package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/okhramov/perimeter-sentinel/internal/domain/watch"
)

const (
	// mqttConnectTimeout bounds the whole connect-with-retries sequence.
	mqttConnectTimeout = 30 * time.Second
	// mqttPublishTimeout bounds a single publish so a slow broker cannot
	// stall the monitoring cycle.
	mqttPublishTimeout = 2 * time.Second
	// mqttDisconnectQuiesceMS is the grace period paho waits for
	// in-flight work on disconnect.
	mqttDisconnectQuiesceMS = 250
)

// MQTT publishes each snapshot as retained JSON to a topic, so a dashboard
// subscribing late still receives the latest state immediately.
type MQTT struct {
	client mqtt.Client
	topic  string
}

// MQTTOptions configures the MQTT sink connection.
type MQTTOptions struct {
	// BrokerURL is the broker address, e.g. "tcp://broker.local:1883".
	BrokerURL string
	// Topic is where snapshots are published.
	Topic string
	// ClientID identifies this monitor to the broker.
	ClientID string
}

// NewMQTT connects to the broker, retrying with exponential backoff until
// the connect timeout elapses or ctx is canceled. A broker that never
// answers is an initialization failure, not something to mask.
func NewMQTT(ctx context.Context, opts MQTTOptions) (*MQTT, error) {
	clientOptions := mqtt.NewClientOptions().
		AddBroker(opts.BrokerURL).
		SetClientID(opts.ClientID).
		SetCleanSession(true).
		SetAutoReconnect(true)

	client := mqtt.NewClient(clientOptions)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = mqttConnectTimeout

	err := backoff.Retry(func() error {
		token := client.Connect()
		if token.Wait() && token.Error() != nil {
			return token.Error()
		}

		return nil
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		return nil, fmt.Errorf("connect to broker %s: %w", opts.BrokerURL, err)
	}

	return &MQTT{
		client: client,
		topic:  opts.Topic,
	}, nil
}

// Name returns the fixed name of the MQTT sink.
func (m *MQTT) Name() string {
	return "mqtt"
}

// Publish sends the snapshot to the configured topic with QoS 0. The
// snapshot stream is latest-wins, so lost messages are superseded by the
// next cycle anyway.
func (m *MQTT) Publish(_ context.Context, snap watch.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	token := m.client.Publish(m.topic, 0, true, payload)
	if !token.WaitTimeout(mqttPublishTimeout) {
		return fmt.Errorf("publish to %s: %w", m.topic, context.DeadlineExceeded)
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", m.topic, err)
	}

	return nil
}

// Close disconnects from the broker.
func (m *MQTT) Close() error {
	if m.client.IsConnected() {
		m.client.Disconnect(mqttDisconnectQuiesceMS)
	}

	return nil
}
