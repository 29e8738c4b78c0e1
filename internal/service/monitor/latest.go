package monitor

import (
	"sync/atomic"

	"github.com/okhramov/perimeter-sentinel/internal/domain/watch"
)

// LatestHolder hands the most recent snapshot from the single loop
// goroutine to the HTTP dashboard without locks. Snapshots are stored
// as whole values, so readers never observe a partial update.
type LatestHolder struct {
	current atomic.Pointer[watch.Snapshot]
}

// NewLatestHolder creates an empty holder.
func NewLatestHolder() *LatestHolder {
	return &LatestHolder{}
}

// Store replaces the published snapshot.
func (h *LatestHolder) Store(snap watch.Snapshot) {
	h.current.Store(&snap)
}

// Latest returns the most recent snapshot, or false before the first Store.
func (h *LatestHolder) Latest() (watch.Snapshot, bool) {
	p := h.current.Load()
	if p == nil {
		return watch.Snapshot{}, false
	}

	return *p, true
}
