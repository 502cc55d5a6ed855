package domain

import "time"

// PageMetric is an externally-sourced search-console metric row for a URL
// on a given date.
type PageMetric struct {
	ID          string    `json:"id,omitempty"`
	URL         string    `json:"url"`
	Date        string    `json:"date"`
	Clicks      int       `json:"clicks"`
	Impressions int       `json:"impressions"`
	Queries     []string  `json:"queries"`
	CreatedAt   time.Time `json:"created_at"`
}

// MetricTotals aggregates clicks and impressions over a range of PageMetric
// rows.
type MetricTotals struct {
	Clicks      int `json:"clicks"`
	Impressions int `json:"impressions"`
}

// CTRPercent returns the click-through rate as a percentage, or zero when
// there are no impressions.
func (t MetricTotals) CTRPercent() float64 {
	if t.Impressions == 0 {
		return 0
	}
	return float64(t.Clicks) / float64(t.Impressions) * 100
}
