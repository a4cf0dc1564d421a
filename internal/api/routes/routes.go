package routes

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"dailymatch-engine/internal/api/handlers"
	"dailymatch-engine/internal/api/middleware"
	"dailymatch-engine/internal/config"
	"dailymatch-engine/internal/ingest"
	"dailymatch-engine/internal/picks"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, scheduler *picks.Scheduler, dedup *ingest.Deduplicator, pool *pgxpool.Pool, rdb *redis.Client) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.TimeoutConfig(cfg.Server.ReadTimeout))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(pool, rdb))
		health.GET("/live", handlers.LivenessHandler)
	}

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		candidates := v1.Group("/candidates")
		{
			candidates.GET("/:id/picks", handlers.DailyPicksHandler(scheduler))
			candidates.POST("/:id/activity", handlers.RecordActivityHandler(scheduler))
		}

		v1.POST("/ingest", handlers.IngestHandler(dedup))
		v1.POST("/score", handlers.ScoreHandler())
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "DailyMatch Engine",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
