package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flightrouter/pareto/graphcache"
	pkgcache "github.com/flightrouter/pareto/pkg/cache"
	"github.com/flightrouter/pareto/pkg/health"
	"github.com/flightrouter/pareto/pkg/middleware"
	"github.com/flightrouter/pareto/revalidate"
	"github.com/flightrouter/pareto/router"
)

// RegisterRoutes wires the route finder's handlers onto engine, applying
// the middleware stack (request ID, structured logging, panic recovery,
// permissive CORS) plus response caching on the read-only GET routes.
func RegisterRoutes(
	engine *gin.Engine,
	orchestrator *router.Orchestrator,
	cache *graphcache.Cache,
	healthChecker *health.HealthChecker,
	cacheManager *pkgcache.CacheManager,
	adminAuthCfg middleware.AdminAuthConfig,
	revalidator *revalidate.Revalidator,
	epoch time.Time,
) {
	server := NewServer(orchestrator, cache, healthChecker, revalidator, epoch)

	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger())
	engine.Use(middleware.Recovery())
	engine.Use(corsMiddleware())

	engine.GET("/health", server.handleHealth)
	engine.GET("/health/ready", server.handleReadiness)
	engine.GET("/health/live", server.handleLiveness)

	api := engine.Group("/")
	api.Use(middleware.ResponseCache(cacheManager, middleware.CacheConfig{
		TTL:         pkgcache.ShortTTL,
		KeyPrefix:   "http_cache",
		SkipPaths:   []string{"/search", "/refresh", "/validate"},
		OnlyMethods: []string{"GET"},
	}))
	{
		api.POST("/search", server.handleSearch)
		api.GET("/airports", server.handleAirports)
		api.POST("/validate", server.handleValidate)
		api.POST("/refresh", middleware.AdminAuth(adminAuthCfg), server.handleRefresh)
	}
}

// corsMiddleware allows cross-origin requests from any client.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		c.Header("Access-Control-Max-Age", (12 * time.Hour).String())

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
