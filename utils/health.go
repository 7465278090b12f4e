package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	RedisEnabled bool      `json:"redisEnabled"`
	Redis        bool      `json:"redis"`
	CheckedAt    time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

func setHealthStatus(s HealthStatus) {
	mu.Lock()
	currentHealth = s
	mu.Unlock()
}

// CheckHealth pings the run store once and records the result. A nil client means Redis
// is disabled, which is healthy.
func CheckHealth(ctx context.Context, client *redis.Client) HealthStatus {
	status := HealthStatus{RedisEnabled: client != nil, CheckedAt: time.Now()}
	if client != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		status.Redis = client.Ping(pingCtx).Err() == nil
		cancel()
	}
	setHealthStatus(status)
	return status
}

// StartHealthMonitor performs periodic health checks and updates in-memory state.
func StartHealthMonitor(ctx context.Context, client *redis.Client, every time.Duration) {
	CheckHealth(ctx, client)
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				CheckHealth(ctx, client)
			}
		}
	}()
}

// Healthy reports whether every enabled dependency answered the last check.
func (s HealthStatus) Healthy() bool {
	return !s.RedisEnabled || s.Redis
}
