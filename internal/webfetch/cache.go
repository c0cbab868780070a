package webfetch

import (
	"sync"
	"time"
)

// pageCache is a thread-safe TTL cache of extracted page text, keyed by
// URL.
type pageCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

type cacheEntry struct {
	content string
	fetched time.Time
}

func newPageCache(ttl time.Duration) *pageCache {
	return &pageCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns cached content for url if present and not expired.
func (c *pageCache) Get(url string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[url]
	if !ok || time.Since(entry.fetched) > c.ttl {
		return "", false
	}
	return entry.content, true
}

// Set stores content for url, resetting its TTL.
func (c *pageCache) Set(url, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = cacheEntry{content: content, fetched: time.Now()}
}

// Clear drops every cached page.
func (c *pageCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
