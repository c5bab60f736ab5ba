package module

import (
	"container/list"

	"github.com/pocketvm-dev/pocketvm/vm"
)

// Cache keeps recently loaded programs keyed by their binary checksum,
// with LRU eviction. Hosts that re-open the same module skip decode and
// verification. Not safe for concurrent use; wrap it if the host loads
// from multiple goroutines.
type Cache struct {
	cache     map[uint64]*list.Element
	evictList *list.List
	maxSize   int
}

type cacheEntry struct {
	key  uint64
	prog *vm.Program
}

// NewCache creates a program cache holding at most maxSize entries
// (0 or negative means the default of 16).
func NewCache(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = 16
	}
	return &Cache{
		cache:     make(map[uint64]*list.Element),
		evictList: list.New(),
		maxSize:   maxSize,
	}
}

// Get returns the cached program for key and marks it most recently used.
func (c *Cache) Get(key uint64) (*vm.Program, bool) {
	elem, ok := c.cache[key]
	if !ok {
		return nil, false
	}
	c.evictList.MoveToFront(elem)
	return elem.Value.(*cacheEntry).prog, true
}

// Add stores prog under key, evicting the least recently used entry if
// the cache is full.
func (c *Cache) Add(key uint64, prog *vm.Program) {
	if elem, ok := c.cache[key]; ok {
		c.evictList.MoveToFront(elem)
		elem.Value.(*cacheEntry).prog = prog
		return
	}

	elem := c.evictList.PushFront(&cacheEntry{key: key, prog: prog})
	c.cache[key] = elem

	if c.evictList.Len() > c.maxSize {
		c.evictOldest()
	}
}

func (c *Cache) evictOldest() {
	elem := c.evictList.Back()
	if elem != nil {
		c.evictList.Remove(elem)
		delete(c.cache, elem.Value.(*cacheEntry).key)
	}
}

// CacheStats reports cache occupancy for monitoring.
type CacheStats struct {
	Size    int
	MaxSize int
}

func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Size:    len(c.cache),
		MaxSize: c.maxSize,
	}
}
