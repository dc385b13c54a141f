package cache

import (
	"context"
	"strings"
	"sync"

	"github.com/aislemap/backend/internal/domain"
)

// MemoryCache is a thread-safe, process-lifetime map from clean item names to aisles.
// Entries are never evicted.
type MemoryCache struct {
	data  map[string]string
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache preloaded with seed
func NewMemoryCache(seed map[string]string) *MemoryCache {
	cache := &MemoryCache{
		data: make(map[string]string, len(seed)),
	}
	for k, v := range seed {
		cache.data[NormalizeKey(k)] = v
	}
	return cache
}

// NormalizeKey lowercases and trims a cache key.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Get retrieves the aisle stored for key
func (c *MemoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	aisle, exists := c.data[NormalizeKey(key)]
	if !exists {
		return "", domain.ErrCacheMiss
	}
	return aisle, nil
}

// Set stores or overwrites the aisle for key
func (c *MemoryCache) Set(ctx context.Context, key string, aisle string) error {
	key = NormalizeKey(key)
	if key == "" || aisle == "" {
		return nil
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data[key] = aisle
	return nil
}

// Size returns the current number of items in the cache
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}
