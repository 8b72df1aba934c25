package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"amp-monitor-backend/config"
	"amp-monitor-backend/internal/mw"
	"amp-monitor-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, cfg *config.Config, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.CORS(cfg.Server.CORSOrigins))

	handler := NewHandler(s, logger, cfg.App.Environment)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/health", handler.GetHealth)

		api.POST("/data", handler.IngestReading)

		api.GET("/user/:username/stats", handler.GetUserStats)
		api.GET("/user/:username/recent", handler.GetUserRecent)
		api.GET("/user/:username/all", handler.GetUserReadings)

		// The product list changes rarely; it is the only cached endpoint.
		api.GET("/products", caching, handler.GetProducts)
		api.POST("/products", handler.CreateProduct)
		api.GET("/products/:productId/users", handler.GetProductUsers)
		api.GET("/products/:productId/users/:username", handler.GetProductUserReadings)
		api.GET("/products/:productId/users/:username/readings", handler.GetProductUserReadingsBySensor)
		api.GET("/products/:productId/users/:username/readings/stats", handler.GetProductUserStats)
		api.GET("/products/:productId/sensor", handler.GetProductUsersBySensor)
	}

	return r
}
