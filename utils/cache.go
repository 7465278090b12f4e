// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"wanderplan/config"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

var (
	// RunCacheClient holds pipeline run snapshots.
	RunCacheClient *redis.Client
)

// InitRunCache initializes the Redis client used for run snapshots.
func InitRunCache() {
	RunCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisRunDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := RunCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Run Cache): %v", err)
	}
}

// GetRunCacheClient returns the run snapshot client.
func GetRunCacheClient() *redis.Client {
	if RunCacheClient == nil {
		InitRunCache()
	}
	return RunCacheClient
}

// QueueRedisOpt returns the asynq connection options for the plan queue.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}
