package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderplan/handlers"
	"wanderplan/utils"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	RegisterRoutes(r, &handlers.HandlerBundle{
		CreatePlanHandler:       ok,
		StreamPlanHandler:       ok,
		EnqueuePlanHandler:      ok,
		GetRunHandler:           ok,
		ParseDestinationHandler: ok,
		FetchFlightsHandler:     ok,
		HealthHandler:           handlers.NewHealthHandler("wanderplan").Handle,
	})
	return r
}

func TestRegisterRoutes(t *testing.T) {
	r := newRouter()

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/plans"},
		{http.MethodPost, "/api/plans/stream"},
		{http.MethodPost, "/api/plans/async"},
		{http.MethodGet, "/api/runs/abc"},
		{http.MethodPost, "/api/parse-destination"},
		{http.MethodPost, "/api/fetch-flights"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusNoContent, w.Code, tc.path)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	utils.CheckHealth(context.Background(), nil)
	utils.PipelineRuns.WithLabelValues("completed").Inc()
	r := newRouter()

	health := httptest.NewRecorder()
	r.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, health.Code)
	assert.Contains(t, health.Body.String(), `"status":"ok"`)

	metrics := httptest.NewRecorder()
	r.ServeHTTP(metrics, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.True(t, strings.Contains(metrics.Body.String(), "wanderplan_pipeline_runs_total"))
}

func TestCORSPreflight(t *testing.T) {
	r := newRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/plans", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
