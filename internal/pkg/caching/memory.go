package caching

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// MemoryCache is a process-local Cache, provided when REDIS_CACHE is unset.
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

type memoryItem struct {
	value     []byte
	expiredAt time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]memoryItem), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string, target any) error {
	c.mu.Lock()
	item, ok := c.items[key]
	if ok && !item.expiredAt.IsZero() && c.now().After(item.expiredAt) {
		delete(c.items, key)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		return cache.ErrCacheMiss
	}
	return msgpack.Unmarshal(item.value, target)
}

func (c *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	b, err := msgpack.Marshal(value)
	if err != nil {
		return err
	}

	item := memoryItem{value: b}
	if ttl > 0 {
		item.expiredAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.items[key] = item
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}
