package ports

import (
	"context"
	"time"
)

// RateLimiter cuenta peticiones por clave en una ventana fija.
// Allow devuelve false cuando la clave superó limit dentro de window.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
