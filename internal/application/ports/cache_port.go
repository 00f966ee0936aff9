package ports

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss la clave no existe o expiró.
var ErrCacheMiss = errors.New("cache: miss")

// Cache define el puerto de salida para caché clave/valor con expiración.
// Los casos de uso tratan cualquier error distinto de ErrCacheMiss como caché no disponible
// y continúan contra la base de datos.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// NopCache caché deshabilitada: siempre miss, escrituras descartadas.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, error)              { return nil, ErrCacheMiss }
func (NopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NopCache) Delete(context.Context, ...string) error                  { return nil }
