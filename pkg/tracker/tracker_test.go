package tracker_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/armada-md/site-api/internal/logger"
	"github.com/armada-md/site-api/pkg/tracker"
)

type received struct {
	path string
	body map[string]any
}

func collectServer(t *testing.T) (*httptest.Server, chan received) {
	t.Helper()

	got := make(chan received, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		got <- received{path: r.URL.Path, body: body}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	return srv, got
}

func waitFor(t *testing.T, got chan received) received {
	t.Helper()

	select {
	case r := <-got:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tracked event")
		return received{}
	}
}

func TestTrack(t *testing.T) {
	srv, got := collectServer(t)
	tr := tracker.New(srv.URL, logger.NewNop())

	tr.Track("interaction", "cta_click", map[string]any{"section": "hero"})

	r := waitFor(t, got)
	if r.path != "/api/analytics/track" {
		t.Errorf("path = %q, want /api/analytics/track", r.path)
	}
	if r.body["eventType"] != "interaction" || r.body["eventName"] != "cta_click" {
		t.Errorf("unexpected payload %v", r.body)
	}
	if r.body["sessionId"] == "" || r.body["sessionId"] == nil {
		t.Error("expected a session id")
	}
	meta, ok := r.body["metadata"].(map[string]any)
	if !ok || meta["section"] != "hero" {
		t.Errorf("metadata = %v", r.body["metadata"])
	}
}

func TestTrackPageView(t *testing.T) {
	srv, got := collectServer(t)
	tr := tracker.New(srv.URL, logger.NewNop())

	tr.TrackPageView("/products/housecall")

	r := waitFor(t, got)
	if r.body["eventType"] != tracker.PageViewEvent {
		t.Errorf("eventType = %v", r.body["eventType"])
	}
	if r.body["pageUrl"] != "/products/housecall" {
		t.Errorf("pageUrl = %v", r.body["pageUrl"])
	}
}

func TestSessionIDStable(t *testing.T) {
	tr := tracker.New("http://localhost:0", logger.NewNop())

	first := tr.SessionID()
	if first == "" {
		t.Fatal("empty session id")
	}
	if second := tr.SessionID(); second != first {
		t.Errorf("session id changed: %q then %q", first, second)
	}
}

func TestTrackPerformance(t *testing.T) {
	srv, got := collectServer(t)
	tr := tracker.New(srv.URL, logger.NewNop())

	tr.TrackPerformance("/", map[string]float64{"LCP": 1830.5})

	r := waitFor(t, got)
	if r.path != "/api/analytics/performance" {
		t.Errorf("path = %q", r.path)
	}
	metrics, ok := r.body["metrics"].(map[string]any)
	if !ok || metrics["LCP"] != 1830.5 {
		t.Errorf("metrics = %v", r.body["metrics"])
	}
}

func TestDisabledTrackerIsNoOp(t *testing.T) {
	tr := tracker.New("", logger.NewNop())

	// Must not panic or block.
	tr.Track("interaction", "cta_click", nil)
	tr.TrackPageView("/")
	tr.TrackPerformance("/", map[string]float64{"LCP": 1})
}

func TestServerErrorIsSwallowed(t *testing.T) {
	hit := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hit <- struct{}{}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	tr := tracker.New(srv.URL, logger.NewNop())
	tr.Track("interaction", "cta_click", nil)

	select {
	case <-hit:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for request")
	}
}
