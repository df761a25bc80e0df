package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up the API routes
func SetupRoutes(handler *Handler) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(Recovery())
	router.Use(CORS())
	router.Use(RequestLogger())

	// Health check
	router.GET("/health", handler.HealthCheck)

	// API v1
	v1 := router.Group("/api/v1")
	{
		repos := v1.Group("/repos/:owner/:repo")
		{
			repos.GET("/metrics", handler.GetMetrics)
			repos.GET("/metrics/history", handler.GetMetricsHistory)
			repos.POST("/collect", handler.Collect)
			repos.POST("/recompute", handler.Recompute)
			repos.POST("/query", handler.Query)
		}
	}

	return router
}
