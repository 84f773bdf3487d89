// Package httpserver provides HTTP server infrastructure components.
package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health status constants - single source of truth for all health endpoints.
const (
	// StatusHealthy indicates the service is running.
	StatusHealthy = "healthy"

	// StatusReady indicates the service is ready to accept traffic.
	StatusReady = "ready"

	// StatusNotReady indicates the service is not ready to accept traffic.
	StatusNotReady = "not_ready"
)

// HealthResponse represents the response for health endpoints.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadinessCheck reports whether the service can serve traffic.
// The context comes from the current request to respect cancellation.
type ReadinessCheck func(ctx context.Context) bool

// RegisterHealthEndpoints registers liveness and readiness probes.
//   - GET /health - always 200 while the process is running
//   - GET /ready  - 200 if the check passes, 503 otherwise
func (r *Router) RegisterHealthEndpoints(check ReadinessCheck) {
	r.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, HealthResponse{Status: StatusHealthy})
	})

	r.echo.GET("/ready", func(c echo.Context) error {
		ctx := c.Request().Context()

		if check == nil || check(ctx) {
			return c.JSON(http.StatusOK, HealthResponse{Status: StatusReady})
		}

		return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: StatusNotReady})
	})
}
