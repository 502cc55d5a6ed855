// Package api wires handlers, middleware, and the HTTP server together.
package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/armada-md/site-api/internal/config"
	"github.com/armada-md/site-api/internal/logger"
	"github.com/armada-md/site-api/internal/server"
)

const (
	defaultReadTimeout = 10 * time.Second
	defaultIdleTimeout = 60 * time.Second

	// Content generation issues several sequential LLM calls, so responses
	// can legitimately take minutes.
	defaultWriteTimeout = 5 * time.Minute
)

// NewServer creates the HTTP server with all routes registered. pingDB is
// nil when no database is configured, which reports the database health
// check as degraded rather than failing.
func NewServer(
	h Handlers,
	cfg *config.Config,
	log logger.Logger,
	pingDB func() error,
) *server.Server {
	return server.NewBuilder(cfg.Service.Name, cfg.Service.Port).
		WithLogger(log).
		WithDebug(cfg.Service.Debug).
		WithVersion(cfg.Service.Version).
		WithTimeouts(defaultReadTimeout, defaultWriteTimeout, defaultIdleTimeout).
		WithDatabaseHealthCheck(pingDB).
		WithRoutes(func(router *gin.Engine) {
			SetupRoutes(router, h, cfg)
		}).
		Build()
}
