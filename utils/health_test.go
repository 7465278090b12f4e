package utils

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

func TestCheckHealth_RedisDisabled(t *testing.T) {
	status := CheckHealth(context.Background(), nil)

	assert.False(t, status.RedisEnabled)
	assert.True(t, status.Healthy())
	assert.Equal(t, status, GetHealthStatus())
}

func TestCheckHealth_RedisUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	status := CheckHealth(context.Background(), client)

	assert.True(t, status.RedisEnabled)
	assert.False(t, status.Redis)
	assert.False(t, status.Healthy())
}
