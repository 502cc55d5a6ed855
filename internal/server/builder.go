package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/armada-md/site-api/internal/logger"
)

// Builder provides a fluent API for building HTTP servers.
type Builder struct {
	config       *Config
	logger       logger.Logger
	setupRoutes  func(*gin.Engine)
	healthChecks map[string]HealthChecker
}

// NewBuilder creates a new server builder with the given configuration.
func NewBuilder(serviceName string, port int) *Builder {
	return &Builder{
		config:       NewConfig(serviceName, port),
		healthChecks: make(map[string]HealthChecker),
	}
}

// WithLogger sets the logger.
func (b *Builder) WithLogger(log logger.Logger) *Builder {
	b.logger = log
	return b
}

// WithDebug enables or disables debug mode.
func (b *Builder) WithDebug(debug bool) *Builder {
	b.config.Debug = debug
	return b
}

// WithVersion sets the service version.
func (b *Builder) WithVersion(version string) *Builder {
	b.config.ServiceVersion = version
	return b
}

// WithTimeouts sets all timeout values for the HTTP server.
func (b *Builder) WithTimeouts(read, write, idle time.Duration) *Builder {
	b.config.ReadTimeout = read
	b.config.WriteTimeout = write
	b.config.IdleTimeout = idle
	return b
}

// WithHealthCheck adds a named health check.
func (b *Builder) WithHealthCheck(name string, checker HealthChecker) *Builder {
	b.healthChecks[name] = checker
	return b
}

// WithDatabaseHealthCheck adds a database health check.
// A nil pingFunc registers a degraded check (database not configured).
func (b *Builder) WithDatabaseHealthCheck(pingFunc func() error) *Builder {
	b.healthChecks["database"] = DatabaseHealthChecker(pingFunc)
	return b
}

// WithRoutes sets the route setup function.
func (b *Builder) WithRoutes(setupRoutes func(*gin.Engine)) *Builder {
	b.setupRoutes = setupRoutes
	return b
}

// Build creates the server with all configured options.
func (b *Builder) Build() *Server {
	if b.logger == nil {
		b.logger = logger.Must(logger.Config{
			Level:       "info",
			Development: b.config.Debug,
		})
	}

	// Wrapper that registers health and metrics routes before service routes
	wrappedSetup := func(router *gin.Engine) {
		if len(b.healthChecks) > 0 {
			RegisterHealthRoutesWithChecks(router, HealthOptions{
				ServiceName:    b.config.ServiceName,
				ServiceVersion: b.config.ServiceVersion,
				Checks:         b.healthChecks,
			})
		} else {
			RegisterHealthRoutes(router, b.config.ServiceName, b.config.ServiceVersion)
		}

		RegisterMetricsRoute(router)

		if b.setupRoutes != nil {
			b.setupRoutes(router)
		}
	}

	return NewServer(b.config, b.logger, wrappedSetup)
}
