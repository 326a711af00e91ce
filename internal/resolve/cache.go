package resolve

import (
	"errors"
	"sync"

	"relink/internal/media"
)

// identityCache memoizes resolution outcomes by cache key and collapses
// concurrent lookups for the same key into a single call. Lookup failures
// are never cached so a later run can retry them.
type identityCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	calls   map[string]*call
}

type cacheEntry struct {
	id  *media.Identity
	err error
}

type call struct {
	done chan struct{}
	id   *media.Identity
	err  error
}

func newIdentityCache() *identityCache {
	return &identityCache{
		entries: make(map[string]cacheEntry),
		calls:   make(map[string]*call),
	}
}

// resolve returns the cached outcome for key, or invokes fn exactly once per
// key across concurrent callers and caches the result.
func (c *identityCache) resolve(key string, fn func() (*media.Identity, error)) (*media.Identity, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return e.id, e.err
	}
	if inflight, ok := c.calls[key]; ok {
		c.mu.Unlock()
		<-inflight.done
		return inflight.id, inflight.err
	}
	current := &call{done: make(chan struct{})}
	c.calls[key] = current
	c.mu.Unlock()

	current.id, current.err = fn()
	close(current.done)

	c.mu.Lock()
	delete(c.calls, key)
	if !errors.Is(current.err, ErrLookupFailed) {
		c.entries[key] = cacheEntry{id: current.id, err: current.err}
	}
	c.mu.Unlock()

	return current.id, current.err
}

// size reports the number of memoized outcomes, for status output.
func (c *identityCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
