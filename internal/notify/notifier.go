package notify

import (
	"context"

	"github.com/okhramov/perimeter-sentinel/internal/domain/watch"
	"github.com/okhramov/perimeter-sentinel/internal/logger"
)

// Notifier delivers a notification when the alert state transitions.
// Implementations may deliver via Telegram or other channels. If Send
// returns an error, the caller logs it and continues operation.
type Notifier interface {
	Name() string
	Send(ctx context.Context, snap watch.Snapshot) error
}

// LogNotifier writes the transition to the event log. This is the default
// notifier when no external channel is configured.
type LogNotifier struct{}

// NewLogNotifier creates the default notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Name returns the type name of the notifier.
func (LogNotifier) Name() string {
	return "log"
}

// Send records the transition in the log.
func (LogNotifier) Send(ctx context.Context, snap watch.Snapshot) error {
	logger.InfoKV(ctx, "Alert state transition",
		"state", snap.State,
		"cycle", snap.Cycle,
		"distance_cm", snap.Reading.DistanceCM,
		"motion", snap.Reading.Motion,
	)

	return nil
}
