package domain

import "time"

// AnalyticsEvent is a single client-side event captured by the tracking
// endpoint. Events are append-only and never updated or deleted.
type AnalyticsEvent struct {
	ID        string         `json:"id,omitempty"`
	EventType string         `json:"event_type"`
	EventName string         `json:"event_name"`
	PageURL   string         `json:"page_url"`
	SessionID string         `json:"session_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	UserAgent string         `json:"user_agent,omitempty"`
	Referrer  string         `json:"referrer,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// PerformanceMetric is a single page performance measurement (core web
// vitals, load timings). Values must be finite; rows with NaN or Inf are
// dropped before insert.
type PerformanceMetric struct {
	ID          string    `json:"id,omitempty"`
	PageURL     string    `json:"page_url"`
	MetricName  string    `json:"metric_name"`
	MetricValue float64   `json:"metric_value"`
	UserAgent   string    `json:"user_agent,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ScrollSample records how far a visitor scrolled and how long they stayed
// on a page within one session.
type ScrollSample struct {
	ID                string    `json:"id,omitempty"`
	PageURL           string    `json:"page_url"`
	MaxScrollPercent  float64   `json:"max_scroll_percentage"`
	TimeOnPageSeconds float64   `json:"time_on_page"`
	SessionID         string    `json:"session_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}
