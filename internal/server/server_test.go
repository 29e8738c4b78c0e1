package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/okhramov/perimeter-sentinel/internal/domain/watch"
	"github.com/okhramov/perimeter-sentinel/internal/metrics"
)

type fakeSource struct {
	snap watch.Snapshot
	ok   bool
}

func (f *fakeSource) Latest() (watch.Snapshot, bool) {
	return f.snap, f.ok
}

func newTestMux(source SnapshotSource) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", statusHandler(source))
	mux.HandleFunc("/healthz", healthHandler)
	mux.Handle("/metrics", metrics.New().Handler())

	return mux
}

func TestStatusBeforeFirstSnapshot(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newTestMux(&fakeSource{}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/status")
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestStatusReturnsSnapshot(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		snap: watch.Snapshot{
			GeneratedAt: time.Now().UTC(),
			Phase:       watch.PhaseRunning,
			State:       watch.StateAlert,
			Reading:     watch.Reading{Motion: true, DistanceCM: 33},
			Cycle:       7,
		},
		ok: true,
	}

	srv := httptest.NewServer(newTestMux(source))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/status")
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap watch.Snapshot

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	require.Equal(t, watch.StateAlert, snap.State)
	require.Equal(t, uint64(7), snap.Cycle)
	require.InDelta(t, 33, snap.Reading.DistanceCM, 0.001)
}

func TestStatusRejectsNonGet(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newTestMux(&fakeSource{ok: true}))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/status", "application/json", nil)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(newTestMux(&fakeSource{}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
}
