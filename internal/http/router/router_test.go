package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "lead_triage_backend/internal/http"
	"lead_triage_backend/internal/metrics"
	"lead_triage_backend/platform/config"
	"lead_triage_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pingModule struct{}

func (pingModule) Name() string { return "ping" }

func (pingModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	for _, g := range []*gin.RouterGroup{ctx.Root, ctx.V1} {
		g.GET("/leads", func(c *gin.Context) { c.JSON(http.StatusOK, []string{}) })
	}
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func newApp(t *testing.T, env map[string]string, health apphttp.HealthChecker) *gin.Engine {
	t.Helper()
	cfg, err := config.FromLookup(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	require.NoError(t, err)

	return New(&apphttp.App{
		Config:  cfg,
		Logger:  logger.Nop(),
		Health:  health,
		Metrics: metrics.New(),
		Modules: []apphttp.Module{pingModule{}},
	})
}

func get(r http.Handler, path string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRoutesMountedAtRootAndV1(t *testing.T) {
	r := newApp(t, nil, pinger{})
	assert.Equal(t, http.StatusOK, get(r, "/leads").Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/v1/leads").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/nope").Code)
}

func TestHealth(t *testing.T) {
	rec := get(newApp(t, nil, pinger{}), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","store":"up"}`, rec.Body.String())

	rec = get(newApp(t, nil, pinger{err: errors.New("down")}), "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	r := newApp(t, map[string]string{"CORS_ORIGINS": "http://localhost:5173"}, pinger{})

	rec := get(r, "/leads", "Origin", "http://localhost:5173")
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = get(r, "/leads", "Origin", "http://evil.example")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequestIDAndMetrics(t *testing.T) {
	r := newApp(t, nil, pinger{})
	rec := get(r, "/leads")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = get(r, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/leads"`)
}

func TestRateLimit(t *testing.T) {
	r := newApp(t, map[string]string{"RATE_LIMIT_PER_SEC": "1", "RATE_LIMIT_BURST": "2"}, pinger{})
	codes := []int{get(r, "/leads").Code, get(r, "/leads").Code, get(r, "/leads").Code}
	assert.Equal(t, []int{200, 200, 429}, codes)
}
