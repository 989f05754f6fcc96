// Package http wires the API routes, middleware stack, and server lifecycle.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/logging"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/prometheus"
	"github.com/scholarmap/scholarmap/internal/interfaces/http/handlers"
	"github.com/scholarmap/scholarmap/internal/interfaces/http/middleware"
)

// RouterConfig aggregates everything the router needs.
type RouterConfig struct {
	Mode string // gin mode: "debug" | "release" | "test"

	Catalog *handlers.CatalogHandler
	MapView *handlers.MapViewHandler
	Search  *handlers.SearchHandler
	Health  *handlers.HealthHandler

	Logger    logging.Logger
	Metrics   *prometheus.AppMetrics
	Collector prometheus.MetricsCollector

	CORS      middleware.CORSConfig
	RateLimit middleware.RateLimitConfig
	// MetricsEnabled exposes /metrics when set.
	MetricsEnabled bool
}

// NewRouter builds the gin engine with the full middleware stack and all API
// routes mounted.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode == "" {
		cfg.Mode = "release"
	}
	gin.SetMode(cfg.Mode)

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(cfg.Logger),
		middleware.RequestLogger(cfg.Logger, cfg.Metrics),
		middleware.CORS(cfg.CORS),
	)

	// Probes stay outside the rate limit so orchestration never gets throttled.
	engine.GET("/health", cfg.Health.Liveness)
	engine.GET("/ready", cfg.Health.Readiness)
	if cfg.MetricsEnabled && cfg.Collector != nil {
		engine.GET("/metrics", gin.WrapH(cfg.Collector.Handler()))
	}

	api := engine.Group("/api/v1", middleware.RateLimit(cfg.RateLimit))

	catalogGroup := api.Group("/catalog")
	{
		catalogGroup.GET("/universities", cfg.Catalog.ListUniversities)
		catalogGroup.GET("/universities/:id", cfg.Catalog.GetUniversity)
		catalogGroup.GET("/projects", cfg.Catalog.ListProjects)
		catalogGroup.GET("/projects/:id", cfg.Catalog.GetProject)
		catalogGroup.GET("/partners", cfg.Catalog.ListPartners)
		catalogGroup.GET("/partners/:id", cfg.Catalog.GetPartner)
		catalogGroup.GET("/researchers", cfg.Catalog.ListResearchers)
		catalogGroup.GET("/events", cfg.Catalog.ListEvents)
		catalogGroup.GET("/search", cfg.Catalog.Search)
	}

	api.GET("/assets/url", cfg.Catalog.AssetURL)

	sessions := api.Group("/map/sessions")
	{
		sessions.POST("", cfg.MapView.CreateSession)
		sessions.GET("/:id", cfg.MapView.GetSession)
		sessions.DELETE("/:id", cfg.MapView.CloseSession)
		sessions.PATCH("/:id/filters", cfg.MapView.UpdateFilters)
		sessions.PUT("/:id/tab", cfg.MapView.SetTab)
		sessions.POST("/:id/focus", cfg.MapView.FocusResearcher)
		sessions.POST("/:id/expand", cfg.MapView.ExpandNetwork)
		sessions.POST("/:id/select", cfg.MapView.SelectEntity)
		sessions.GET("/:id/surface", cfg.MapView.SurfaceState)
		sessions.GET("/:id/rankings", cfg.MapView.Rankings)
		sessions.GET("/:id/statistics", cfg.MapView.Statistics)
	}

	api.POST("/search/ai", cfg.Search.AISearch)

	return engine
}
