package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dealerhub-api/internal/application/ports"
	"github.com/jhoicas/dealerhub-api/pkg/config"
)

// unreachable cliente contra un puerto cerrado: toda operación falla rápido.
func unreachable() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestNewRedisClient_SinServidorFalla(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewRedisClient(ctx, config.RedisConfig{Addr: "127.0.0.1:1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Redis")
}

func TestRedisCache_ErrorNoEsMiss(t *testing.T) {
	c := NewRedisCache(unreachable())
	_, err := c.Get(context.Background(), "storefront:x")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ports.ErrCacheMiss), "caída de Redis no debe confundirse con miss")
}

func TestRedisCache_DeleteSinClavesNoLlamaAlServidor(t *testing.T) {
	c := NewRedisCache(unreachable())
	assert.NoError(t, c.Delete(context.Background()))
}

func TestRedisRateLimiter_PropagaError(t *testing.T) {
	l := NewRedisRateLimiter(unreachable())
	ok, err := l.Allow(context.Background(), "login:1.2.3.4", 5, time.Minute)
	require.Error(t, err)
	assert.False(t, ok)
}
