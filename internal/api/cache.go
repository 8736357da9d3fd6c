package api

import "sync"

// collectionCache is a read-through cache of raw collection bodies keyed by
// resource name. Every mutating call invalidates its resource, so a cached
// read can only ever be as stale as the last GET since the last local write.
// There is no TTL and no cross-process coherence; another client's writes are
// picked up on the next explicit refresh.
type collectionCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newCollectionCache() *collectionCache {
	return &collectionCache{data: map[string][]byte{}}
}

func (c *collectionCache) get(resource string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[resource]
	return raw, ok
}

func (c *collectionCache) put(resource string, raw []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[resource] = raw
}

func (c *collectionCache) invalidate(resource string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, resource)
}
