// Package analytics aggregates raw analytics rows into the dashboard
// summary document.
package analytics

import (
	"math"
	"sort"

	"github.com/armada-md/site-api/internal/domain"
)

// DashboardWindowDays is the fixed trailing window the dashboard reports on.
const DashboardWindowDays = 30

const topPagesLimit = 10

// EventTypeCount is one grouped event counter, keyed "event_type:event_name".
type EventTypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// PageCount ranks one page URL by event volume.
type PageCount struct {
	URL   string `json:"url"`
	Count int    `json:"count"`
}

// Summary holds the headline dashboard numbers.
type Summary struct {
	TotalEvents    int     `json:"totalEvents"`
	AvgScrollDepth float64 `json:"avgScrollDepth"`
	AvgTimeOnPage  float64 `json:"avgTimeOnPage"`
}

// Dashboard is the aggregated analytics document returned to the admin UI.
type Dashboard struct {
	Summary      Summary            `json:"summary"`
	EventsByType []EventTypeCount   `json:"eventsByType"`
	Performance  map[string]float64 `json:"performance"`
	TopPages     []PageCount        `json:"topPages"`
}

// EmptyDashboard returns a zeroed document with no nil collections, used
// when storage is unavailable so the dashboard always renders.
func EmptyDashboard() Dashboard {
	return Dashboard{
		EventsByType: []EventTypeCount{},
		Performance:  map[string]float64{},
		TopPages:     []PageCount{},
	}
}

// BuildDashboard aggregates raw rows from the trailing window into the
// dashboard document. Events are grouped by type and name, performance
// metrics are averaged per metric name, and pages are ranked by event count.
func BuildDashboard(events []domain.AnalyticsEvent, scrolls []domain.ScrollSample, metrics []domain.PerformanceMetric) Dashboard {
	dashboard := EmptyDashboard()
	dashboard.Summary.TotalEvents = len(events)

	typeCounts := map[string]int{}
	pageCounts := map[string]int{}
	for _, event := range events {
		typeCounts[event.EventType+":"+event.EventName]++
		if event.PageURL != "" {
			pageCounts[event.PageURL]++
		}
	}

	for key, count := range typeCounts {
		dashboard.EventsByType = append(dashboard.EventsByType, EventTypeCount{Type: key, Count: count})
	}
	sort.Slice(dashboard.EventsByType, func(i, j int) bool {
		if dashboard.EventsByType[i].Count != dashboard.EventsByType[j].Count {
			return dashboard.EventsByType[i].Count > dashboard.EventsByType[j].Count
		}
		return dashboard.EventsByType[i].Type < dashboard.EventsByType[j].Type
	})

	for url, count := range pageCounts {
		dashboard.TopPages = append(dashboard.TopPages, PageCount{URL: url, Count: count})
	}
	sort.Slice(dashboard.TopPages, func(i, j int) bool {
		if dashboard.TopPages[i].Count != dashboard.TopPages[j].Count {
			return dashboard.TopPages[i].Count > dashboard.TopPages[j].Count
		}
		return dashboard.TopPages[i].URL < dashboard.TopPages[j].URL
	})
	if len(dashboard.TopPages) > topPagesLimit {
		dashboard.TopPages = dashboard.TopPages[:topPagesLimit]
	}

	if len(scrolls) > 0 {
		var depthSum, timeSum float64
		for _, sample := range scrolls {
			depthSum += sample.MaxScrollPercent
			timeSum += sample.TimeOnPageSeconds
		}
		dashboard.Summary.AvgScrollDepth = math.Round(depthSum / float64(len(scrolls)))
		dashboard.Summary.AvgTimeOnPage = math.Round(timeSum / float64(len(scrolls)))
	}

	metricSums := map[string]float64{}
	metricCounts := map[string]int{}
	for _, metric := range metrics {
		metricSums[metric.MetricName] += metric.MetricValue
		metricCounts[metric.MetricName]++
	}
	for name, sum := range metricSums {
		dashboard.Performance[name] = sum / float64(metricCounts[name])
	}

	return dashboard
}
