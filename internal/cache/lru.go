// Package cache provides caching utilities for the MCP server.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/waelttf/uniquereq-mcp/pkg/client"
)

// EntryCache provides thread-safe LRU caching for full SessionEntry objects,
// keyed by "sessionID/entryID" so identical entry IDs from different sessions
// never collide.
type EntryCache struct {
	cache *lru.Cache[string, *client.SessionEntry]
}

// NewEntryCache creates a new LRU cache with the specified maximum number of items.
func NewEntryCache(maxItems int) (*EntryCache, error) {
	c, err := lru.New[string, *client.SessionEntry](maxItems)
	if err != nil {
		return nil, err
	}
	return &EntryCache{cache: c}, nil
}

// Get retrieves an entry from the cache.
// Returns the entry and true if found, nil and false otherwise.
func (c *EntryCache) Get(sessionID, entryID string) (*client.SessionEntry, bool) {
	return c.cache.Get(sessionID + "/" + entryID)
}

// Put adds or updates an entry in the cache.
func (c *EntryCache) Put(sessionID, entryID string, entry *client.SessionEntry) {
	c.cache.Add(sessionID+"/"+entryID, entry)
}

// Len returns the current number of items in the cache.
func (c *EntryCache) Len() int {
	return c.cache.Len()
}

// TemplateCache memoizes raw path -> normalized template lookups. Capture
// histories repeat the same raw paths heavily, so this avoids re-running the
// segment classifiers on every entry.
type TemplateCache struct {
	cache *lru.Cache[string, string]
}

// NewTemplateCache creates a template cache with the specified maximum number of items.
func NewTemplateCache(maxItems int) (*TemplateCache, error) {
	c, err := lru.New[string, string](maxItems)
	if err != nil {
		return nil, err
	}
	return &TemplateCache{cache: c}, nil
}

// Get retrieves a normalized template for a raw path.
func (c *TemplateCache) Get(rawPath string) (string, bool) {
	return c.cache.Get(rawPath)
}

// Put stores a normalized template for a raw path.
func (c *TemplateCache) Put(rawPath, template string) {
	c.cache.Add(rawPath, template)
}

// Len returns the current number of items in the cache.
func (c *TemplateCache) Len() int {
	return c.cache.Len()
}
