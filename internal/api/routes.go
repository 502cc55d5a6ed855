package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/armada-md/site-api/internal/config"
	"github.com/armada-md/site-api/internal/handler"
	"github.com/armada-md/site-api/internal/middleware"
)

// Handlers groups the handler set the router wires up.
type Handlers struct {
	Analytics *handler.AnalyticsHandler
	SEO       *handler.SEOHandler
	Content   *handler.ContentHandler
	Sitemap   *handler.SitemapHandler
}

// SetupRoutes configures all API routes.
// Health and metrics routes are registered by the server builder.
func SetupRoutes(router *gin.Engine, h Handlers, cfg *config.Config) {
	rateLimitWindow := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second

	// Ingestion endpoints are public and rate limited per IP.
	ingest := router.Group("/api/analytics")
	ingest.Use(middleware.RateLimiter(cfg.RateLimit.MaxEventsPerMinute, rateLimitWindow))
	ingest.POST("/track", h.Analytics.HandleTrack)
	ingest.POST("/performance", h.Analytics.HandlePerformance)
	ingest.POST("/scroll", h.Analytics.HandleScroll)

	router.GET("/api/analytics/dashboard", h.Analytics.HandleDashboard)

	seoGroup := router.Group("/api/seo")
	seoGroup.POST("/analyze", h.SEO.HandleAnalyze)
	seoGroup.GET("/analyze", h.SEO.HandleGetRecommendation)
	seoGroup.POST("/audit", middleware.BearerAuth(cfg.Service.CronSecret), h.SEO.HandleAudit)
	seoGroup.GET("/metrics", h.SEO.HandleGetMetrics)
	seoGroup.POST("/metrics", h.SEO.HandlePostMetric)

	contentGroup := router.Group("/api/content")
	contentGroup.POST("/generate", h.Content.HandleGenerate)
	contentGroup.GET("/drafts", h.Content.HandleListDrafts)
	contentGroup.PATCH("/drafts", h.Content.HandlePatchDraft)
	contentGroup.GET("/auto-generate", middleware.BearerAuth(cfg.Service.CronSecret), h.Content.HandleAutoGenerate)

	// Admin surface re-exposes the dashboard and editorial endpoints behind
	// basic auth for the admin UI.
	admin := router.Group("/admin", middleware.BasicAuth(cfg.Admin.Username, cfg.Admin.Password))
	admin.GET("/analytics", h.Analytics.HandleDashboard)
	admin.GET("/seo/recommendations", h.SEO.HandleGetRecommendation)
	admin.GET("/content/drafts", h.Content.HandleListDrafts)
	admin.PATCH("/content/drafts", h.Content.HandlePatchDraft)
	admin.POST("/content/generate", h.Content.HandleGenerate)

	router.GET("/sitemap.xml", h.Sitemap.HandleSitemap)
	router.GET("/robots.txt", h.Sitemap.HandleRobots)
}
