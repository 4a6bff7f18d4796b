package stationcsv

import (
	"container/list"
	"sync"

	"github.com/IceRain5491/WaterQualityClassifier/internal/domain"
)

// CachedDirectory wraps a StationDirectory with an in-memory LRU cache keyed
// by the normalized station name. Partial-name lookups scan the whole
// directory, so repeated names from the stream are answered from the cache.
// Misses are cached too; a loaded directory does not change.
type CachedDirectory struct {
	inner      domain.StationDirectory
	maxEntries int

	mu      sync.Mutex
	order   *list.List // front is most recently used
	entries map[string]*list.Element
}

type cacheEntry struct {
	key   string
	info  domain.StationInfo
	found bool
}

// NewCachedDirectory creates a cache decorator around dir holding at most
// maxEntries names.
func NewCachedDirectory(dir domain.StationDirectory, maxEntries int) *CachedDirectory {
	return &CachedDirectory{
		inner:      dir,
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

func (c *CachedDirectory) LookupStation(name string) (domain.StationInfo, bool) {
	key := domain.NormalizeStationName(name)

	c.mu.Lock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		e := el.Value.(*cacheEntry)
		c.mu.Unlock()
		return e.info, e.found
	}
	c.mu.Unlock()

	info, found := c.inner.LookupStation(name)

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		return info, found
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, info: info, found: found})
	if c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
	return info, found
}

// Len returns the number of cached names.
func (c *CachedDirectory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
