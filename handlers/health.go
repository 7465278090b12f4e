package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wanderplan/utils"
)

// HealthHandler reports the last dependency check.
type HealthHandler struct {
	Service string
}

func NewHealthHandler(service string) *HealthHandler {
	return &HealthHandler{Service: service}
}

func (h *HealthHandler) Handle(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	state := "ok"
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(code, gin.H{
		"status":       state,
		"service":      h.Service,
		"dependencies": status,
	})
}
