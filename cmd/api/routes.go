// Package main provides the API server entry point.
package main

import (
	"io/fs"

	"github.com/labstack/echo/v4"

	"github.com/lllypuk/murmur/internal/infrastructure/httpserver"
	"github.com/lllypuk/murmur/internal/middleware"
	"github.com/lllypuk/murmur/web"
)

// SetupRoutes configures all routes and the middleware chain on the
// given Echo instance.
func SetupRoutes(c *Container, e *echo.Echo) *httpserver.Router {
	routerConfig := httpserver.RouterConfig{
		Logger:              c.Logger,
		RateLimitMiddleware: buildRateLimitMiddleware(c),
		CORSConfig:          middleware.DefaultCORSConfig(),
		LoggingConfig:       middleware.DefaultLoggingConfig(),
		RecoveryConfig:      middleware.DefaultRecoveryConfig(),
	}

	router := httpserver.NewRouter(e, routerConfig)

	// Demo client
	if staticSub, err := fs.Sub(web.StaticFS, "static"); err == nil {
		e.StaticFS("/static", staticSub)
		e.FileFS("/", "index.html", staticSub)
	} else {
		c.Logger.Error("failed to mount static assets", "error", err)
	}

	router.RegisterHealthEndpoints(c.Ready)
	router.RegisterMetricsEndpoint(c.Registry)

	router.RegisterAll(c.MessageHandler)
	c.WebSocketHandler.RegisterRoutes(e)

	return router
}

// buildRateLimitMiddleware builds the rate limiting middleware from
// configuration. Returns nil when rate limiting is disabled.
func buildRateLimitMiddleware(c *Container) echo.MiddlewareFunc {
	if !c.Config.RateLimit.Enabled || c.RateLimitStore == nil {
		return nil
	}

	rlConfig := middleware.DefaultRateLimitConfig()
	rlConfig.Logger = c.Logger
	rlConfig.Store = c.RateLimitStore
	rlConfig.Limit = c.Config.RateLimit.Limit
	rlConfig.Window = c.Config.RateLimit.Window
	rlConfig.BurstSize = c.Config.RateLimit.BurstSize

	return middleware.RateLimit(rlConfig)
}
