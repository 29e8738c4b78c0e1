package watch

import "time"

// State is the alert state of the monitored perimeter.
type State string

// Possible alert states.
const (
	StateSafe  State = "SAFE"
	StateAlert State = "ALERT"
)

// StateFromVerdict maps an intrusion verdict to the alert state it implies.
// The mapping is level-triggered: the current verdict alone decides.
func StateFromVerdict(verdict bool) State {
	if verdict {
		return StateAlert
	}

	return StateSafe
}

// Phase is the lifecycle phase of the monitoring process.
type Phase string

// Lifecycle phases reported in snapshots.
const (
	PhaseStarting Phase = "starting"
	PhaseRunning  Phase = "running"
	PhaseStopped  Phase = "stopped"
)

// Snapshot is an immutable view of the monitor published after every
// cycle and on lifecycle transitions. Sinks and the dashboard consume
// it by value; nothing mutates a snapshot after creation.
type Snapshot struct {
	GeneratedAt time.Time `json:"generated_at"`
	Phase       Phase     `json:"phase"`
	State       State     `json:"state"`
	Reading     Reading   `json:"reading"`
	Cycle       uint64    `json:"cycle"`
}
