package monitor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/okhramov/perimeter-sentinel/internal/actuator"
	"github.com/okhramov/perimeter-sentinel/internal/alert"
	"github.com/okhramov/perimeter-sentinel/internal/domain/watch"
	"github.com/okhramov/perimeter-sentinel/internal/sink"
)

// orderedSink appends its name to a shared trace on Close so tests can
// assert the release order.
type orderedSink struct {
	name  string
	trace *[]string
}

func (s *orderedSink) Name() string { return s.name }

func (s *orderedSink) Publish(context.Context, watch.Snapshot) error { return nil }

func (s *orderedSink) Close() error {
	*s.trace = append(*s.trace, s.name)

	return nil
}

// TestReleaseTearsDownEverything verifies that a failed startup deactivates
// the alert output, closes the sensor port and releases every sink already
// wired, newest first.
func TestReleaseTearsDownEverything(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	port := &scriptedPort{cancel: func() {}}
	out := actuator.NewLogOutput()
	controller := alert.NewController(out)

	_, err := controller.Update(ctx, true)
	require.NoError(t, err)
	require.True(t, out.Active())

	var trace []string

	sinks := []sink.Sink{
		&orderedSink{name: "console", trace: &trace},
		&orderedSink{name: "mqtt", trace: &trace},
	}

	release(ctx, controller, port, sinks)

	require.False(t, out.Active())
	require.True(t, port.closed)
	require.Equal(t, []string{"mqtt", "console"}, trace)
}
