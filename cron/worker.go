package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"wanderplan/config"
	"wanderplan/models"
	"wanderplan/services/planner"
	"wanderplan/services/runs"
	"wanderplan/services/tasks"
	"wanderplan/utils"
)

// PlanRunner is the part of the orchestrator the worker needs.
type PlanRunner interface {
	RunWithID(ctx context.Context, runID, freeText string, userFields models.TravelRequest, observe planner.Observer) (*models.TravelPlan, error)
}

// InitPlanWorker runs the async plan worker in background. The returned server is
// shut down by the caller; the queue connection monitor stops with ctx.
func InitPlanWorker(ctx context.Context, runner PlanRunner, store runs.Store, logger *zap.Logger) *asynq.Server {
	concurrency := config.AppConfig.WorkerConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	srv := asynq.NewServer(
		utils.QueueRedisOpt(),
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeGeneratePlan, handlePlanTask(runner, store, logger))

	monitor := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	go monitorRedisConnection(ctx, monitor, 10*time.Second, logger)

	go func() {
		logger.Info("[PlanWorker] Starting async worker", zap.Int("concurrency", concurrency))
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Start(mux); err != nil {
				logger.Error("[PlanWorker] Failed to start worker",
					zap.Int("attempt", attempts),
					zap.Int("max_attempts", maxAttempts),
					zap.Error(err),
				)
				if attempts == maxAttempts {
					logger.Fatal("[PlanWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
	return srv
}

func handlePlanTask(runner PlanRunner, store runs.Store, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.PlanTaskPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("[PlanHandler] Invalid payload", zap.Error(err))
			return fmt.Errorf("decode plan payload: %v: %w", err, asynq.SkipRetry)
		}

		rec := runs.NewRecorder(store, p.RunID, logger)
		_, err := runner.RunWithID(ctx, p.RunID, p.Request, p.TravelData, rec.Observe)
		if err != nil {
			// The failure is already in the run snapshot; the task itself is done.
			logger.Info("[PlanHandler] Run finished with failure",
				zap.String("run_id", p.RunID),
				zap.String("kind", planner.ErrorKind(err)),
			)
			if rec.Snapshot().State != models.StateFailed {
				// Rejected before the first event, so nothing was recorded yet.
				rec.Observe(models.StageEvent{
					RunID:     p.RunID,
					Stage:     models.StageRun,
					State:     models.StateFailed,
					Error:     err.Error(),
					ErrorKind: planner.ErrorKind(err),
					At:        time.Now(),
				})
			}
			return nil
		}
		logger.Info("[PlanHandler] Run completed", zap.String("run_id", p.RunID))
		return nil
	}
}

// monitorRedisConnection pings the queue database until ctx ends, then closes client.
func monitorRedisConnection(ctx context.Context, client *redis.Client, every time.Duration, logger *zap.Logger) {
	defer client.Close()

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil && ctx.Err() == nil {
				logger.Warn("[PlanWorker] Redis connection lost", zap.Error(err))
			}
		}
	}
}
