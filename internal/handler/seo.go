package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/armada-md/site-api/internal/domain"
	"github.com/armada-md/site-api/internal/logger"
	"github.com/armada-md/site-api/internal/seo"
)

// defaultMetricsDays is the default window for search-console reads.
const defaultMetricsDays = 30

// SEOMetricsStore is the storage surface for search-console metrics.
type SEOMetricsStore interface {
	InsertPageMetric(ctx context.Context, metric *domain.PageMetric) error
	PageMetricsForURL(ctx context.Context, url string, since time.Time) ([]domain.PageMetric, domain.MetricTotals, error)
}

// SEOHandler serves the analyze, audit, and metrics endpoints. A nil
// analyzer means the LLM or database is not configured, which surfaces as
// 500 on the generation paths. A nil metrics store skips metric writes.
type SEOHandler struct {
	analyzer *seo.Analyzer
	metrics  SEOMetricsStore
	log      logger.Logger
}

// NewSEOHandler creates an SEOHandler. analyzer and metrics may be nil.
func NewSEOHandler(analyzer *seo.Analyzer, metrics SEOMetricsStore, log logger.Logger) *SEOHandler {
	return &SEOHandler{analyzer: analyzer, metrics: metrics, log: log}
}

type analyzeRequest struct {
	URL         string          `json:"url"`
	Content     string          `json:"content"`
	CurrentMeta domain.PageMeta `json:"currentMeta"`
}

// HandleAnalyze generates and stores an SEO recommendation for a page.
func (h *SEOHandler) HandleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if req.URL == "" || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL and content are required"})
		return
	}

	if h.analyzer == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "SEO analysis is not configured"})
		return
	}

	rec, err := h.analyzer.Analyze(c.Request.Context(), req.URL, req.Content, req.CurrentMeta)
	if err != nil {
		h.log.Error("SEO analysis failed", logger.String("url", req.URL), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to analyze SEO"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"recommendations": rec,
		"saved":           rec,
	})
}

// HandleGetRecommendation returns the latest stored recommendation for a URL.
func (h *SEOHandler) HandleGetRecommendation(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url parameter is required"})
		return
	}

	if h.analyzer == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "SEO analysis is not configured"})
		return
	}

	rec, err := h.analyzer.Latest(c.Request.Context(), url)
	if err != nil {
		h.log.Error("Recommendation lookup failed", logger.String("url", url), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recommendations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"recommendation": rec,
	})
}

// HandleAudit runs the analyzer over the fixed page inventory. The route is
// gated by the cron bearer token.
func (h *SEOHandler) HandleAudit(c *gin.Context) {
	if h.analyzer == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "SEO analysis is not configured"})
		return
	}

	results := h.analyzer.RunAudit(c.Request.Context(), seo.DefaultAuditPages())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "SEO audit completed",
		"results": results,
	})
}

type metricRequest struct {
	URL         string   `json:"url"`
	Date        string   `json:"date"`
	Clicks      int      `json:"clicks"`
	Impressions int      `json:"impressions"`
	Queries     []string `json:"queries"`
}

// HandlePostMetric stores one externally-sourced search-console metric row.
func (h *SEOHandler) HandlePostMetric(c *gin.Context) {
	var req metricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if req.URL == "" || req.Date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url and date are required"})
		return
	}

	if h.metrics == nil {
		skipped(c, reasonNoDatabase)
		return
	}

	metric := &domain.PageMetric{
		URL:         req.URL,
		Date:        req.Date,
		Clicks:      req.Clicks,
		Impressions: req.Impressions,
		Queries:     req.Queries,
	}

	if err := h.metrics.InsertPageMetric(c.Request.Context(), metric); err != nil {
		h.log.Error("Page metric insert failed", logger.Error(err))
		skipped(c, reasonDBError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// HandleGetMetrics returns metric rows and totals for a URL over a window.
func (h *SEOHandler) HandleGetMetrics(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url parameter is required"})
		return
	}

	days := defaultMetricsDays
	if daysStr := c.Query("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = parsed
	}

	if h.metrics == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database is not configured"})
		return
	}

	since := time.Now().AddDate(0, 0, -days)
	metrics, totals, err := h.metrics.PageMetricsForURL(c.Request.Context(), url, since)
	if err != nil {
		h.log.Error("Page metrics query failed", logger.String("url", url), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch metrics"})
		return
	}
	if metrics == nil {
		metrics = []domain.PageMetric{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"metrics": metrics,
		"totals": gin.H{
			"clicks":      totals.Clicks,
			"impressions": totals.Impressions,
			"ctr":         totals.CTRPercent(),
		},
	})
}
