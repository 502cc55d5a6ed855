// Package handler contains the gin HTTP handlers for the site API.
package handler

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/armada-md/site-api/internal/analytics"
	"github.com/armada-md/site-api/internal/domain"
	"github.com/armada-md/site-api/internal/logger"
)

// Skip reasons returned on the analytics write paths.
const (
	reasonNoDatabase = "no_database"
	reasonDBError    = "db_error"
	reasonNoMetrics  = "no_valid_metrics"
)

// AnalyticsStore is the storage surface the analytics handlers need.
type AnalyticsStore interface {
	InsertEvent(ctx context.Context, event *domain.AnalyticsEvent) error
	InsertMetrics(ctx context.Context, metrics []domain.PerformanceMetric) error
	InsertScroll(ctx context.Context, sample *domain.ScrollSample) error
	EventsSince(ctx context.Context, since time.Time) ([]domain.AnalyticsEvent, error)
	ScrollsSince(ctx context.Context, since time.Time) ([]domain.ScrollSample, error)
	MetricsSince(ctx context.Context, since time.Time) ([]domain.PerformanceMetric, error)
}

// AnalyticsHandler serves the ingestion and dashboard endpoints. A nil
// store means the database is not configured; writes are then skipped and
// the dashboard renders empty, but requests never fail.
type AnalyticsHandler struct {
	store AnalyticsStore
	log   logger.Logger
}

// NewAnalyticsHandler creates an AnalyticsHandler. store may be nil.
func NewAnalyticsHandler(store AnalyticsStore, log logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{store: store, log: log}
}

type trackRequest struct {
	EventType string         `json:"eventType"`
	EventName string         `json:"eventName"`
	PageURL   string         `json:"pageUrl"`
	Metadata  map[string]any `json:"metadata"`
	SessionID string         `json:"sessionId"`
}

// HandleTrack ingests a single analytics event.
func (h *AnalyticsHandler) HandleTrack(c *gin.Context) {
	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if req.EventType == "" || req.EventName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "eventType and eventName are required"})
		return
	}

	if h.store == nil {
		skipped(c, reasonNoDatabase)
		return
	}

	event := &domain.AnalyticsEvent{
		EventType: req.EventType,
		EventName: req.EventName,
		PageURL:   req.PageURL,
		SessionID: req.SessionID,
		Metadata:  req.Metadata,
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
	}

	if err := h.store.InsertEvent(c.Request.Context(), event); err != nil {
		h.log.Error("Analytics insert failed", logger.Error(err))
		skipped(c, reasonDBError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type performanceRequest struct {
	PageURL string             `json:"pageUrl"`
	Metrics map[string]float64 `json:"metrics"`
}

// HandlePerformance ingests a batch of page performance metrics. Non-finite
// values are dropped before insert.
func (h *AnalyticsHandler) HandlePerformance(c *gin.Context) {
	var req performanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if req.PageURL == "" || len(req.Metrics) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageUrl and metrics are required"})
		return
	}

	if h.store == nil {
		skipped(c, reasonNoDatabase)
		return
	}

	metrics := FilterFiniteMetrics(req.PageURL, req.Metrics, c.Request.UserAgent())
	if len(metrics) == 0 {
		skipped(c, reasonNoMetrics)
		return
	}

	if err := h.store.InsertMetrics(c.Request.Context(), metrics); err != nil {
		h.log.Error("Performance insert failed", logger.Error(err))
		skipped(c, reasonDBError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type scrollRequest struct {
	PageURL             string  `json:"pageUrl"`
	MaxScrollPercentage float64 `json:"maxScrollPercentage"`
	TimeOnPage          float64 `json:"timeOnPage"`
	SessionID           string  `json:"sessionId"`
}

// HandleScroll ingests one scroll-depth sample.
func (h *AnalyticsHandler) HandleScroll(c *gin.Context) {
	var req scrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if req.PageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageUrl is required"})
		return
	}

	if h.store == nil {
		skipped(c, reasonNoDatabase)
		return
	}

	sample := &domain.ScrollSample{
		PageURL:           req.PageURL,
		MaxScrollPercent:  req.MaxScrollPercentage,
		TimeOnPageSeconds: req.TimeOnPage,
		SessionID:         req.SessionID,
	}

	if err := h.store.InsertScroll(c.Request.Context(), sample); err != nil {
		h.log.Error("Scroll insert failed", logger.Error(err))
		skipped(c, reasonDBError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// HandleDashboard returns the aggregated 30-day analytics document. It
// never fails: storage problems produce an empty document.
func (h *AnalyticsHandler) HandleDashboard(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusOK, analytics.EmptyDashboard())
		return
	}

	ctx := c.Request.Context()
	since := time.Now().AddDate(0, 0, -analytics.DashboardWindowDays)

	events, err := h.store.EventsSince(ctx, since)
	if err != nil {
		h.log.Warn("Dashboard events query failed", logger.Error(err))
		c.JSON(http.StatusOK, analytics.EmptyDashboard())
		return
	}
	scrolls, err := h.store.ScrollsSince(ctx, since)
	if err != nil {
		h.log.Warn("Dashboard scroll query failed", logger.Error(err))
		c.JSON(http.StatusOK, analytics.EmptyDashboard())
		return
	}
	metrics, err := h.store.MetricsSince(ctx, since)
	if err != nil {
		h.log.Warn("Dashboard metrics query failed", logger.Error(err))
		c.JSON(http.StatusOK, analytics.EmptyDashboard())
		return
	}

	c.JSON(http.StatusOK, analytics.BuildDashboard(events, scrolls, metrics))
}

// FilterFiniteMetrics converts a metric map to insertable rows, dropping
// NaN and infinite values.
func FilterFiniteMetrics(pageURL string, metrics map[string]float64, userAgent string) []domain.PerformanceMetric {
	rows := make([]domain.PerformanceMetric, 0, len(metrics))
	for name, value := range metrics {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			continue
		}
		rows = append(rows, domain.PerformanceMetric{
			PageURL:     pageURL,
			MetricName:  name,
			MetricValue: value,
			UserAgent:   userAgent,
		})
	}
	return rows
}

func skipped(c *gin.Context, reason string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "skipped": true, "reason": reason})
}
