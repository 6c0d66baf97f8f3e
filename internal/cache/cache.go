// Package cache provides a bounded, TTL-aware LRU cache for search results.
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/Mentallyspammed1/neonsearch/internal/models"
)

type entry struct {
	key       string
	value     *models.SearchResponse
	createdAt time.Time
}

// Cache maps normalized search keys to previously computed result sets.
// Recency is updated on both hits and inserts; the least-recently-accessed
// entry is evicted when capacity is exceeded. Entries older than the TTL are
// treated as absent and removed on the lookup that discovers them. All
// operations are serialized by one mutex.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	ll       *list.List // front = most recently accessed
	entries  map[string]*list.Element
	now      func() time.Time
}

// New creates a cache holding at most capacity entries, each valid for ttl.
func New(capacity int, ttl time.Duration) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		ttl:      ttl,
		ll:       list.New(),
		entries:  make(map[string]*list.Element),
		now:      time.Now,
	}
}

// Get returns the cached result for key, or nil/false when the key was never
// stored or its entry has expired.
func (c *Cache) Get(key string) (*models.SearchResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	ent := el.Value.(*entry)
	if c.ttl > 0 && c.now().Sub(ent.createdAt) > c.ttl {
		c.ll.Remove(el)
		delete(c.entries, key)
		return nil, false
	}

	c.ll.MoveToFront(el)
	return ent.value, true
}

// Put stores a result under key, refreshing recency and creation time for an
// existing key, and evicting the least-recently-accessed entry if the insert
// would exceed capacity.
func (c *Cache) Put(key string, value *models.SearchResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		ent := el.Value.(*entry)
		ent.value = value
		ent.createdAt = c.now()
		c.ll.MoveToFront(el)
		return
	}

	c.entries[key] = c.ll.PushFront(&entry{key: key, value: value, createdAt: c.now()})

	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.entries, oldest.Value.(*entry).key)
		}
	}
}

// Len reports the number of live entries, expired ones included until a Get
// evicts them.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
