// Package tracker provides a fire-and-forget client for emitting analytics
// events to the site API. Failures are logged at debug level and never
// surfaced to the caller. When the base URL is empty, all methods are no-ops,
// allowing tooling to optionally integrate.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/armada-md/site-api/internal/logger"
)

const sendTimeout = 5 * time.Second

// PageViewEvent is the event type emitted by TrackPageView.
const PageViewEvent = "page_view"

type trackPayload struct {
	EventType string         `json:"eventType"`
	EventName string         `json:"eventName"`
	PageURL   string         `json:"pageUrl,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	SessionID string         `json:"sessionId"`
}

type performancePayload struct {
	PageURL string             `json:"pageUrl"`
	Metrics map[string]float64 `json:"metrics"`
}

// Tracker emits analytics events to the site API. The zero session identifier
// is created lazily on first use and reused for the tracker's lifetime.
type Tracker struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Logger

	mu        sync.Mutex
	sessionID string
}

// New creates a Tracker posting to baseURL. If baseURL is empty, all methods
// are no-ops.
func New(baseURL string, log logger.Logger) *Tracker {
	return &Tracker{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: sendTimeout},
		log:        log,
	}
}

// IsEnabled returns true if the tracker is configured with a URL.
func (t *Tracker) IsEnabled() bool {
	return t.baseURL != ""
}

// SessionID returns the stable per-session identifier, creating it on first
// call.
func (t *Tracker) SessionID() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sessionID == "" {
		t.sessionID = uuid.New().String()
	}

	return t.sessionID
}

// Track emits a single event. It never blocks and never returns an error; the
// request runs in the background and failures are logged at debug level.
func (t *Tracker) Track(eventType, eventName string, metadata map[string]any) {
	t.trackPage(eventType, eventName, "", metadata)
}

// TrackPageView emits a page_view event for path.
func (t *Tracker) TrackPageView(path string) {
	t.trackPage(PageViewEvent, path, path, nil)
}

// TrackPerformance emits performance metric values for pageURL.
func (t *Tracker) TrackPerformance(pageURL string, metrics map[string]float64) {
	if !t.IsEnabled() || len(metrics) == 0 {
		return
	}

	payload := performancePayload{PageURL: pageURL, Metrics: metrics}

	go t.send("/api/analytics/performance", payload)
}

func (t *Tracker) trackPage(eventType, eventName, pageURL string, metadata map[string]any) {
	if !t.IsEnabled() || eventType == "" || eventName == "" {
		return
	}

	payload := trackPayload{
		EventType: eventType,
		EventName: eventName,
		PageURL:   pageURL,
		Metadata:  metadata,
		SessionID: t.SessionID(),
	}

	go t.send("/api/analytics/track", payload)
}

func (t *Tracker) send(path string, payload any) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		t.log.Debug("Failed to marshal analytics payload", logger.Error(err))

		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(body))
	if err != nil {
		t.log.Debug("Failed to create analytics request", logger.Error(err))

		return
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.log.Debug("Failed to send analytics event", logger.Error(err))

		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		t.log.Debug("Analytics event rejected",
			logger.String("path", path),
			logger.Int("status", resp.StatusCode))
	}
}
