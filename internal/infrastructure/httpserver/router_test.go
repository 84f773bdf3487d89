package httpserver_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/lllypuk/murmur/internal/infrastructure/httpserver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/lllypuk/murmur/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRouterConfig(t *testing.T) {
	config := httpserver.DefaultRouterConfig()

	assert.NotNil(t, config.Logger)
	assert.NotNil(t, config.CORSConfig.AllowOrigins)
	assert.NotNil(t, config.LoggingConfig.SkipPaths)
	assert.NotNil(t, config.RecoveryConfig.Logger)
}

func TestNewRouter(t *testing.T) {
	e := echo.New()
	config := httpserver.DefaultRouterConfig()

	router := httpserver.NewRouter(e, config)

	assert.NotNil(t, router)
	assert.Equal(t, e, router.Echo())
}

func TestNewRouter_NilLogger(t *testing.T) {
	e := echo.New()
	config := httpserver.DefaultRouterConfig()
	config.Logger = nil

	router := httpserver.NewRouter(e, config)

	assert.NotNil(t, router)
}

func TestRouter_Routes(t *testing.T) {
	e := echo.New()
	config := httpserver.DefaultRouterConfig()
	router := httpserver.NewRouter(e, config)

	router.Echo().GET("/test", func(c echo.Context) error {
		return c.String(http.StatusOK, "public")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public", rec.Body.String())
}

func TestRouter_GlobalMiddleware(t *testing.T) {
	e := echo.New()
	config := httpserver.DefaultRouterConfig()

	rateLimitCalled := false
	config.RateLimitMiddleware = func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rateLimitCalled = true
			return next(c)
		}
	}

	router := httpserver.NewRouter(e, config)

	router.Echo().GET("/test", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.True(t, rateLimitCalled)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RecoveryMiddleware(t *testing.T) {
	e := echo.New()
	config := httpserver.DefaultRouterConfig()
	config.RecoveryConfig = middleware.RecoveryConfig{
		Logger: slog.Default(),
	}

	router := httpserver.NewRouter(e, config)

	router.Echo().GET("/panic", func(_ echo.Context) error {
		panic("test panic")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	rec := httptest.NewRecorder()

	// Should not panic
	assert.NotPanics(t, func() {
		e.ServeHTTP(rec, req)
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouter_CORSMiddleware(t *testing.T) {
	e := echo.New()
	config := httpserver.DefaultRouterConfig()
	router := httpserver.NewRouter(e, config)

	router.Echo().GET("/test", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RegisterHealthEndpoints(t *testing.T) {
	e := echo.New()
	config := httpserver.DefaultRouterConfig()
	router := httpserver.NewRouter(e, config)

	router.RegisterHealthEndpoints(func(_ context.Context) bool {
		return true
	})

	// Test health endpoint
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")

	// Test ready endpoint
	req = httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ready")
}

func TestRouter_RegisterHealthEndpoints_NotReady(t *testing.T) {
	e := echo.New()
	config := httpserver.DefaultRouterConfig()
	router := httpserver.NewRouter(e, config)

	router.RegisterHealthEndpoints(func(_ context.Context) bool {
		return false
	})

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), httpserver.StatusNotReady)
}

func TestRouter_RegisterHealthEndpoints_NilCheck(t *testing.T) {
	e := echo.New()
	config := httpserver.DefaultRouterConfig()
	router := httpserver.NewRouter(e, config)

	router.RegisterHealthEndpoints(nil)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	// With nil check, should be ready
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RegisterMetricsEndpoint(t *testing.T) {
	e := echo.New()
	config := httpserver.DefaultRouterConfig()
	router := httpserver.NewRouter(e, config)

	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_requests_total",
		Help: "Test counter.",
	})
	registry.MustRegister(counter)
	counter.Inc()

	router.RegisterMetricsEndpoint(registry)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_requests_total")
}

func TestRouter_RegisterMetricsEndpoint_NilGatherer(t *testing.T) {
	e := echo.New()
	config := httpserver.DefaultRouterConfig()
	router := httpserver.NewRouter(e, config)

	router.RegisterMetricsEndpoint(nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

type testRegistrar struct {
	registered bool
}

func (r *testRegistrar) RegisterRoutes(router *httpserver.Router) {
	r.registered = true
	router.Echo().GET("/registered", func(c echo.Context) error {
		return c.String(http.StatusOK, "registered")
	})
}

func TestRouter_RegisterAll(t *testing.T) {
	e := echo.New()
	config := httpserver.DefaultRouterConfig()
	router := httpserver.NewRouter(e, config)

	first := &testRegistrar{}
	second := &testRegistrar{}
	router.RegisterAll(first)
	require.True(t, first.registered)
	assert.False(t, second.registered)

	req := httptest.NewRequest(http.MethodGet, "/registered", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "registered", rec.Body.String())
}
