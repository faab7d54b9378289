// Package cache provides a small in-memory TTL cache with LRU eviction.
// The registry sources use it to avoid re-querying upstream for identifiers
// that were looked up recently.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Cache is the interface the sources depend on.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Delete(key string)
	Size() int
}

type entry struct {
	key       string
	value     any
	expiresAt time.Time
	element   *list.Element
}

// MemoryCache is a bounded in-memory cache. When full, the least recently
// used entry is evicted.
type MemoryCache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*entry
	lru      *list.List
}

// NewMemoryCache creates a cache holding at most capacity entries.
func NewMemoryCache(capacity int) *MemoryCache {
	if capacity <= 0 {
		capacity = 100
	}
	return &MemoryCache{
		capacity: capacity,
		items:    make(map[string]*entry),
		lru:      list.New(),
	}
}

// Get returns the cached value if present and unexpired.
func (c *MemoryCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.remove(e)
		return nil, false
	}
	c.lru.MoveToFront(e.element)
	return e.value, true
}

// Set stores a value. A zero ttl means the entry never expires.
func (c *MemoryCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if e, ok := c.items[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.lru.MoveToFront(e.element)
		return
	}

	if len(c.items) >= c.capacity {
		if back := c.lru.Back(); back != nil {
			c.remove(back.Value.(*entry))
		}
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	e.element = c.lru.PushFront(e)
	c.items[key] = e
}

// Delete removes an entry if present.
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok {
		c.remove(e)
	}
}

// Size returns the current entry count.
func (c *MemoryCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// remove deletes an entry. Caller holds c.mu.
func (c *MemoryCache) remove(e *entry) {
	c.lru.Remove(e.element)
	delete(c.items, e.key)
}
