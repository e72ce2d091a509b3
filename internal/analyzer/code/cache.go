package code

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// cacheEntry is one file's fully-analyzed result, keyed by path and
// validated against the content hash so re-analysis of the same bytes is
// free (spec §4.6, §5: "a
// content-hash cache... is process-wide and guarded by a mutex over the
// whole map; entries are immutable once inserted").
type cacheEntry struct {
	hash     string
	Handlers []Handler
	DBRefs   []DBRef
	Calls    []Call
}

// Cache is the process-wide code-analysis cache. The zero value is usable;
// NewCache exists for symmetry with the rest of the package's
// constructors.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewCache() *Cache {
	return &Cache{entries: map[string]cacheEntry{}}
}

func hashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached result for path if its content hash matches, or
// ok=false if the entry is missing or stale.
func (c *Cache) Get(path string, content []byte) (handlers []Handler, dbRefs []DBRef, calls []Call, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, exists := c.entries[path]
	if !exists || entry.hash != hashContent(content) {
		return nil, nil, nil, false
	}
	return entry.Handlers, entry.DBRefs, entry.Calls, true
}

// Put inserts or replaces path's cache entry. Insertion is immutable from
// the caller's perspective — Put always stores a fresh entry rather than
// mutating fields on an existing one, so concurrent Get calls never
// observe a partially written entry.
func (c *Cache) Put(path string, content []byte, handlers []Handler, dbRefs []DBRef, calls []Call) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = map[string]cacheEntry{}
	}
	c.entries[path] = cacheEntry{hash: hashContent(content), Handlers: handlers, DBRefs: dbRefs, Calls: calls}
}
