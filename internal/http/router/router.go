// Package router builds the gin engine from the composed application.
package router

import (
	"context"
	"net/http"
	"time"

	apphttp "lead_triage_backend/internal/http"
	"lead_triage_backend/internal/leads/transport"
	"lead_triage_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const healthTimeout = 2 * time.Second

// New creates the engine with shared middleware, health and metrics endpoints,
// and every module's routes mounted both at the root and under /api/v1.
func New(app *apphttp.App) *gin.Engine {
	cfg := app.Config

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(cfg)))
	if app.Metrics != nil {
		engine.Use(app.Metrics.Middleware())
	}

	limiter := httpkit.NewIPRateLimiter(rate.Limit(cfg.GetRateLimitPerSec()), cfg.GetRateLimitBurst(), app.Logger)
	engine.Use(limiter.RateLimit())
	engine.Use(httpkit.BodyLimit(cfg.GetMaxUploadBytes()))

	health := healthHandler(app.Health)
	engine.GET("/health", health)
	engine.GET("/api/health", health)
	if app.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(app.Metrics.Handler()))
	}

	ctx := &apphttp.RouterContext{
		Engine: engine,
		Root:   engine.Group(""),
		V1:     engine.Group("/api/v1"),
	}
	for _, module := range app.Modules {
		module.RegisterRoutes(ctx)
		app.Logger.Debug("registered module routes", "module", module.Name())
	}

	return engine
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", httpkit.RequestIDHeader},
		ExposeHeaders:    []string{httpkit.RequestIDHeader},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}
	origins := cfg.GetCORSOrigins()
	if cfg.GetCORSAllowAll() || len(origins) == 0 {
		c.AllowAllOrigins = true
		c.AllowCredentials = false
	} else {
		c.AllowOrigins = origins
	}
	return c
}

func healthHandler(checker apphttp.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()
			if err := checker.Ping(ctx); err != nil {
				_ = c.Error(err)
				httpkit.JSON(c, http.StatusServiceUnavailable, transport.HealthResponse{Status: "unavailable", Store: "down"})
				return
			}
		}
		httpkit.OK(c, transport.HealthResponse{Status: "ok", Store: "up"})
	}
}
