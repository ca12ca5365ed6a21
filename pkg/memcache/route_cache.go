package memcache

import (
	"sync"
	"time"
)

type EdgeKey struct {
	Mode string
	From string
	To   string
}

type Edge struct {
	DurationSeconds int
	DistanceMeters  int
}

type edgeEntry struct {
	edge      Edge
	expiresAt time.Time
}

// RouteEdgeCache is a process-local TTL cache for routed pairs, so repeated
// matrix lookups within and across sessions do not re-hit the provider.
type RouteEdgeCache struct {
	mu    sync.RWMutex
	store map[EdgeKey]edgeEntry
}

func NewRouteEdgeCache() *RouteEdgeCache {
	return &RouteEdgeCache{store: make(map[EdgeKey]edgeEntry)}
}

func (c *RouteEdgeCache) Get(k EdgeKey) (Edge, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.store[k]
	if !ok || time.Now().After(it.expiresAt) {
		return Edge{}, false
	}
	return it.edge, true
}

func (c *RouteEdgeCache) Set(k EdgeKey, e Edge, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[k] = edgeEntry{edge: e, expiresAt: time.Now().Add(ttl)}
}
