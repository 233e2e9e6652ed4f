package cache

import (
	"sync"
	"time"
)

// DefaultTTL is how long a summary stays valid unless the caller overrides it.
const DefaultTTL = 5 * time.Minute

// Item is a cached payload with its expiration.
type Item struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the item has passed its TTL.
func (i *Item) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// Cache is a thread-safe in-memory TTL cache. Expired entries are treated as
// absent and evicted lazily on lookup; a background sweep reclaims the rest.
// The owning service is the only reader and writer.
type Cache struct {
	mu         sync.RWMutex
	items      map[string]*Item
	defaultTTL time.Duration
}

// New creates a cache with the given default TTL and starts the sweep
// goroutine. A non-positive TTL falls back to DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c := &Cache{
		items:      make(map[string]*Item),
		defaultTTL: ttl,
	}

	go c.sweep()

	return c
}

// sweep removes expired items periodically.
func (c *Cache) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		for key, item := range c.items {
			if item.IsExpired() {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}

// Get returns the payload for key if a valid entry exists. An expired entry
// counts as a miss and is evicted.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if item.IsExpired() {
		c.mu.Lock()
		// Re-check under the write lock; another writer may have refreshed it.
		if cur, ok := c.items[key]; ok && cur.IsExpired() {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return item.Data, true
}

// Set stores a payload under key with the default TTL.
func (c *Cache) Set(key string, data []byte) {
	c.SetWithTTL(key, data, c.defaultTTL)
}

// SetWithTTL stores a payload under key with a caller-chosen TTL.
func (c *Cache) SetWithTTL(key string, data []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &Item{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	}
}

// Delete removes a single entry.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*Item)
}

// Size returns the number of stored entries, expired or not.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// Stats returns cache statistics for the metrics endpoint.
func (c *Cache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := len(c.items)
	expired := 0
	for _, item := range c.items {
		if item.IsExpired() {
			expired++
		}
	}

	return map[string]interface{}{
		"total_items":   total,
		"expired_items": expired,
		"active_items":  total - expired,
		"ttl_seconds":   c.defaultTTL.Seconds(),
	}
}
