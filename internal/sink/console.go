package sink

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/okhramov/perimeter-sentinel/internal/domain/watch"
)

const (
	consoleHeader = "  PERIMETER SENTINEL"
	consoleRule   = "=================================================="

	// DefaultRepaintInterval limits how often steady-state frames are
	// redrawn, to keep the local display from flickering.
	DefaultRepaintInterval = 1 * time.Second

	// clearScreen is the ANSI erase-display + cursor-home sequence.
	clearScreen = "\x1b[2J\x1b[H"
)

// Console renders status snapshots as text frames on the local display.
//
// Steady-state frames are rate-limited: a snapshot that neither changes the
// alert state nor the lifecycle phase is dropped if the previous frame is
// younger than the repaint interval. Transitions always repaint.
type Console struct {
	w io.Writer
	// clear prefixes each frame with an ANSI clear when writing to a
	// real terminal.
	clear bool

	mu        sync.Mutex
	interval  time.Duration
	lastPaint time.Time
	lastState watch.State
	lastPhase watch.Phase
}

// NewConsole creates a console sink writing to w. clear enables ANSI screen
// clearing; disable it when w is not a terminal.
func NewConsole(w io.Writer, clear bool) *Console {
	return &Console{
		w:        w,
		clear:    clear,
		interval: DefaultRepaintInterval,
	}
}

// Name returns the fixed name of the console sink.
func (c *Console) Name() string {
	return "console"
}

// Publish renders one frame, subject to the repaint rate limit.
func (c *Console) Publish(_ context.Context, snap watch.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()

	steady := snap.Phase == c.lastPhase && snap.State == c.lastState
	if steady && now.Sub(c.lastPaint) < c.interval {
		return nil
	}

	if err := c.paint(snap); err != nil {
		return err
	}

	c.lastPaint = now
	c.lastState = snap.State
	c.lastPhase = snap.Phase

	return nil
}

// ReportError renders a dedicated error screen. Used for fatal
// initialization failures before the process exits.
func (c *Console) ReportError(code string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder
	if c.clear {
		b.WriteString(clearScreen)
	}

	fmt.Fprintf(&b, "%s\n%s - ERROR\n%s\n\n", consoleRule, consoleHeader, consoleRule)
	fmt.Fprintf(&b, "ERROR CODE: %s\n", code)
	fmt.Fprintf(&b, "DESCRIPTION: %v\n\n", err)
	fmt.Fprintf(&b, "The monitor will shut down. Check sensor connections.\n%s\n", consoleRule)

	_, _ = io.WriteString(c.w, b.String())
}

// Close releases nothing; the console sink holds no resources.
func (c *Console) Close() error {
	return nil
}

// paint writes a single status frame.
func (c *Console) paint(snap watch.Snapshot) error {
	var b strings.Builder
	if c.clear {
		b.WriteString(clearScreen)
	}

	fmt.Fprintf(&b, "%s\n%s\n%s\n\n", consoleRule, consoleHeader, consoleRule)
	fmt.Fprintf(&b, "STATUS: %s\n\n", statusLine(snap))

	if snap.Phase == watch.PhaseRunning {
		motion := "CLEAR"
		if snap.Reading.Motion {
			motion = "DETECTED"
		}

		fmt.Fprintf(&b, "Motion: %s\n", motion)

		if snap.Reading.DistanceValid() {
			fmt.Fprintf(&b, "Distance: %.2f cm\n", snap.Reading.DistanceCM)
		} else {
			b.WriteString("Distance: no valid reading\n")
		}

		fmt.Fprintf(&b, "Cycle: %d\n", snap.Cycle)
	}

	fmt.Fprintf(&b, "Time: %s\n\n%s\n", snap.GeneratedAt.Format(time.RFC3339), consoleRule)

	if _, err := io.WriteString(c.w, b.String()); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}

	return nil
}

// statusLine maps a snapshot to the headline shown on the display.
func statusLine(snap watch.Snapshot) string {
	switch snap.Phase {
	case watch.PhaseStarting:
		return "SYSTEM STARTING"
	case watch.PhaseStopped:
		return "SYSTEM STOPPED"
	case watch.PhaseRunning:
	}

	if snap.State == watch.StateAlert {
		return "INTRUSION DETECTED"
	}

	return "AREA SAFE"
}
