package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Plan endpoints
	CreatePlanHandler  gin.HandlerFunc
	StreamPlanHandler  gin.HandlerFunc
	EnqueuePlanHandler gin.HandlerFunc
	GetRunHandler      gin.HandlerFunc

	// Single-stage endpoints
	ParseDestinationHandler gin.HandlerFunc
	FetchFlightsHandler     gin.HandlerFunc

	// HealthHandler reports dependency status.
	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires a planner handler into a bundle.
func NewHandlerBundle(ph *PlannerHandler, health *HealthHandler) *HandlerBundle {
	return &HandlerBundle{
		CreatePlanHandler:       ph.CreatePlanHandler,
		StreamPlanHandler:       ph.StreamPlanHandler,
		EnqueuePlanHandler:      ph.EnqueuePlanHandler,
		GetRunHandler:           ph.GetRunHandler,
		ParseDestinationHandler: ph.ParseDestinationHandler,
		FetchFlightsHandler:     ph.FetchFlightsHandler,
		HealthHandler:           health.Handle,
	}
}
