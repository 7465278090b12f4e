package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"

	"wanderplan/config"
	"wanderplan/cron"
	"wanderplan/handlers"
	"wanderplan/middleware"
	"wanderplan/routes"
	"wanderplan/services/planner"
	"wanderplan/services/runs"
	"wanderplan/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	orchestrator, cleanup, err := planner.NewOrchestratorFromConfig(ctx, config.AppConfig, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize planner: %v", err)
	}
	defer cleanup()

	// Run snapshots live in Redis when enabled, so async runs survive across instances.
	var (
		runStore    runs.Store
		queue       handlers.TaskEnqueuer
		redisClient *redis.Client
		worker      *asynq.Server
	)
	if config.AppConfig.RedisEnabled {
		redisClient = utils.GetRunCacheClient()
		runStore = runs.NewRedisStore(redisClient, config.AppConfig.RunTTL)

		queueClient := asynq.NewClient(utils.QueueRedisOpt())
		defer queueClient.Close()
		queue = queueClient

		worker = cron.InitPlanWorker(ctx, orchestrator, runStore, logger)
	} else {
		logger.Info("main: redis disabled, async planning unavailable")
		runStore = runs.NewMemoryStore(config.AppConfig.RunTTL)
	}
	utils.StartHealthMonitor(ctx, redisClient, 60*time.Second)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	plannerHandler := handlers.NewPlannerHandler(orchestrator, runStore, queue, logger)
	healthHandler := handlers.NewHealthHandler("wanderplan")
	routes.RegisterRoutes(router, handlers.NewHandlerBundle(plannerHandler, healthHandler))

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	// Streaming runs may take as long as a synthesis call.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.AppConfig.SynthesisTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if worker != nil {
		worker.Shutdown()
	}
	stop()

	logger.Sugar().Info("main: server stopped gracefully")
}
