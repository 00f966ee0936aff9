package apptest

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/dealerhub-api/internal/application/ports"
)

// Cache caché en memoria sin expiración; cuenta los aciertos.
type Cache struct {
	mu   sync.Mutex
	data map[string][]byte
	Hits int
}

// NewCache crea una caché vacía.
func NewCache() *Cache { return &Cache{data: map[string][]byte{}} }

func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	c.Hits++
	return v, nil
}

func (c *Cache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *Cache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

// Has informa si la clave está cacheada.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}
