package server

import (
	"net/http"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthStatus represents the status of a health check.
type HealthStatus string

const (
	// HealthStatusHealthy indicates the service is healthy.
	HealthStatusHealthy HealthStatus = "healthy"
	// HealthStatusDegraded indicates the service is degraded but functional.
	HealthStatusDegraded HealthStatus = "degraded"
	// HealthStatusUnhealthy indicates the service is unhealthy.
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResponse is the standardized health check response format.
type HealthResponse struct {
	Status  HealthStatus           `json:"status"`
	Service string                 `json:"service"`
	Version string                 `json:"version"`
	Uptime  string                 `json:"uptime,omitempty"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult represents the result of an individual health check.
type CheckResult struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Latency string       `json:"latency,omitempty"`
}

// HealthChecker is a function that performs a health check and returns the result.
type HealthChecker func() CheckResult

// HealthOptions configures the health endpoint behavior.
type HealthOptions struct {
	ServiceName    string
	ServiceVersion string
	// StartTime is when the service started (for uptime calculation).
	StartTime time.Time
	// Checks is a map of named health checkers.
	Checks map[string]HealthChecker
}

// healthState tracks server start time for uptime reporting.
var healthState = struct {
	sync.Once
	startTime time.Time
}{}

// RegisterHealthRoutes adds standardized health endpoints to a Gin router.
// Endpoints:
//   - GET /health - Basic health check with status, service name, version
//   - GET /health/memory - Memory statistics from runtime
//   - HEAD /health - Lightweight health check for load balancers
func RegisterHealthRoutes(router *gin.Engine, serviceName, version string) {
	initStartTime()

	router.GET("/health", healthHandler(serviceName, version, nil))
	router.HEAD("/health", headHealthHandler())
	router.GET("/health/memory", memoryHealthHandler())
}

// RegisterHealthRoutesWithChecks adds health endpoints with custom health checks.
func RegisterHealthRoutesWithChecks(router *gin.Engine, opts HealthOptions) {
	if opts.StartTime.IsZero() {
		initStartTime()
		opts.StartTime = healthState.startTime
	}

	router.GET("/health", healthHandler(opts.ServiceName, opts.ServiceVersion, opts.Checks))
	router.HEAD("/health", headHealthHandler())
	router.GET("/health/memory", memoryHealthHandler())
}

// DatabaseHealthChecker builds a HealthChecker from a database ping function.
// A nil pingFunc reports degraded, matching the service's optional-database mode.
func DatabaseHealthChecker(pingFunc func() error) HealthChecker {
	return func() CheckResult {
		if pingFunc == nil {
			return CheckResult{
				Status:  HealthStatusDegraded,
				Message: "database not configured",
			}
		}

		start := time.Now()
		if err := pingFunc(); err != nil {
			return CheckResult{
				Status:  HealthStatusUnhealthy,
				Message: err.Error(),
				Latency: time.Since(start).String(),
			}
		}

		return CheckResult{
			Status:  HealthStatusHealthy,
			Latency: time.Since(start).String(),
		}
	}
}

// initStartTime initializes the server start time (only once).
func initStartTime() {
	healthState.Do(func() {
		healthState.startTime = time.Now()
	})
}

// healthHandler returns a Gin handler for the health endpoint.
func healthHandler(serviceName, version string, checks map[string]HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := HealthResponse{
			Status:  HealthStatusHealthy,
			Service: serviceName,
			Version: version,
			Uptime:  formatUptime(time.Since(healthState.startTime)),
		}

		if len(checks) > 0 {
			response.Checks = make(map[string]CheckResult, len(checks))
			for name, checker := range checks {
				result := checker()
				response.Checks[name] = result

				if result.Status == HealthStatusUnhealthy {
					response.Status = HealthStatusUnhealthy
				} else if result.Status == HealthStatusDegraded && response.Status == HealthStatusHealthy {
					response.Status = HealthStatusDegraded
				}
			}
		}

		statusCode := http.StatusOK
		if response.Status == HealthStatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, response)
	}
}

// headHealthHandler returns a Gin handler for HEAD /health requests.
func headHealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Status(http.StatusOK)
	}
}

// memoryHealthHandler reports runtime memory statistics.
func memoryHealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		c.JSON(http.StatusOK, gin.H{
			"alloc_bytes":       m.Alloc,
			"total_alloc_bytes": m.TotalAlloc,
			"sys_bytes":         m.Sys,
			"heap_objects":      m.HeapObjects,
			"num_gc":            m.NumGC,
			"goroutines":        runtime.NumGoroutine(),
		})
	}
}

// formatUptime formats a duration as a human-readable string.
func formatUptime(d time.Duration) string {
	const (
		hoursPerDay    = 24
		minutesPerHour = 60
		secondsPerMin  = 60
	)

	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	minutes := int(d.Minutes()) % minutesPerHour
	seconds := int(d.Seconds()) % secondsPerMin

	switch {
	case days > 0:
		return strconv.Itoa(days) + "d " + strconv.Itoa(hours) + "h " + strconv.Itoa(minutes) + "m"
	case hours > 0:
		return strconv.Itoa(hours) + "h " + strconv.Itoa(minutes) + "m"
	case minutes > 0:
		return strconv.Itoa(minutes) + "m " + strconv.Itoa(seconds) + "s"
	default:
		return strconv.Itoa(seconds) + "s"
	}
}
