package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wanderplan/handlers"
)

// RegisterPlanRoutes registers the plan pipeline endpoints.
func RegisterPlanRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.POST("/plans", hb.CreatePlanHandler)
		api.POST("/plans/stream", hb.StreamPlanHandler)
		api.POST("/plans/async", hb.EnqueuePlanHandler)
		api.GET("/runs/:id", hb.GetRunHandler)

		// Single stages, for clients that drive the flow themselves.
		api.POST("/parse-destination", hb.ParseDestinationHandler)
		api.POST("/fetch-flights", hb.FetchFlightsHandler)
	}
}

// RegisterHealthRoute registers the health-check and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Cache-Control"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterPlanRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
