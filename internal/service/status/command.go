package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/okhramov/perimeter-sentinel/internal/config"
	"github.com/okhramov/perimeter-sentinel/internal/domain/watch"
	"github.com/okhramov/perimeter-sentinel/internal/logger"
)

// requestTimeout bounds the status request end to end.
const requestTimeout = 5 * time.Second

// Options controls the sentinel-status query.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// Address provides an optional monitor address override, e.g.
	// "sentinel.local:8080".
	Address string
}

// ErrNoMonitorAddress indicates there is no address to query.
var ErrNoMonitorAddress = errors.New("no monitor address configured")

// ErrMonitorStarting indicates the monitor answered but has not completed
// its first polling cycle yet.
var ErrMonitorStarting = errors.New("monitor is starting, no snapshot yet")

// Run fetches the latest snapshot from the monitor's status endpoint and
// logs it in a human-readable form.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "sentinel-status")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	address := settings.HTTPAddress
	if opts.Address != "" {
		address = opts.Address
	}

	snap, err := Fetch(ctx, address)
	if err != nil {
		return err
	}

	logger.Info(ctx, FormatSnapshot(snap))

	return nil
}

// Fetch queries the monitor at address for its latest snapshot.
func Fetch(ctx context.Context, address string) (watch.Snapshot, error) {
	url, err := statusURL(address)
	if err != nil {
		return watch.Snapshot{}, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return watch.Snapshot{}, fmt.Errorf("build status request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return watch.Snapshot{}, fmt.Errorf("query %s: %w", url, err)
	}

	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusServiceUnavailable:
		return watch.Snapshot{}, ErrMonitorStarting
	default:
		return watch.Snapshot{}, fmt.Errorf("query %s: unexpected status %s", url, resp.Status)
	}

	var snap watch.Snapshot

	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return watch.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}

	return snap, nil
}

// statusURL builds the status endpoint URL from a configured address.
// A bare listen address like ":8080" is treated as localhost.
func statusURL(address string) (string, error) {
	if address == "" {
		return "", ErrNoMonitorAddress
	}

	if strings.HasPrefix(address, ":") {
		address = "localhost" + address
	}

	if !strings.Contains(address, "://") {
		address = "http://" + address
	}

	return address + "/api/status", nil
}

// FormatSnapshot renders a snapshot as a single status line.
func FormatSnapshot(snap watch.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s)", snap.State, snap.Phase)

	if snap.Reading.DistanceValid() {
		fmt.Fprintf(&b, ", distance %.1f cm", snap.Reading.DistanceCM)
	} else {
		b.WriteString(", distance unavailable")
	}

	fmt.Fprintf(&b, ", motion %t, cycle %d, generated %s",
		snap.Reading.Motion, snap.Cycle, snap.GeneratedAt.Format(time.RFC3339))

	return b.String()
}
