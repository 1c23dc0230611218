// Package dedup prevents reprocessing the same URL within a run and,
// through a backing store, across runs.
package dedup

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Store persists the seen-URL set between runs. Implementations must
// round-trip a set of strings exactly.
type Store interface {
	// Load returns the previously persisted set, or nil when none exists.
	Load(ctx context.Context) ([]string, error)
	// Save persists the full set, replacing any previous state.
	Save(ctx context.Context, urls []string) error
	// Close releases any resources held by the store.
	Close() error
}

// Cache is the process-lifetime set of already-processed URLs. It is the
// only mutable state shared across concurrent crawl tasks; all access
// goes through its atomic reserve operation.
type Cache struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	store Store
}

// NewCache creates an empty cache. The store may be nil for a cache that
// lives only for the current process.
func NewCache(store Store) *Cache {
	return &Cache{
		seen:  make(map[string]struct{}),
		store: store,
	}
}

// Hydrate loads the persisted set into the cache. A missing persisted set
// is not an error.
func (c *Cache) Hydrate(ctx context.Context) error {
	if c.store == nil {
		return nil
	}

	urls, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("hydrate dedup cache: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, u := range urls {
		c.seen[u] = struct{}{}
	}

	return nil
}

// Reserve atomically marks the URL seen and reports true iff it was not
// already present. Callers must skip the URL on false. Safe for
// concurrent use; for any given URL it returns true at most once per
// cache lifetime.
func (c *Cache) Reserve(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.seen[url]; exists {
		return false
	}

	c.seen[url] = struct{}{}
	return true
}

// Contains reports whether the URL has been seen.
func (c *Cache) Contains(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, exists := c.seen[url]
	return exists
}

// Len returns the number of seen URLs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.seen)
}

// Snapshot returns a sorted copy of the seen set.
func (c *Cache) Snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	urls := make([]string, 0, len(c.seen))
	for u := range c.seen {
		urls = append(urls, u)
	}

	sort.Strings(urls)
	return urls
}

// Persist writes the full seen set to the backing store. No-op without a
// store.
func (c *Cache) Persist(ctx context.Context) error {
	if c.store == nil {
		return nil
	}

	if err := c.store.Save(ctx, c.Snapshot()); err != nil {
		return fmt.Errorf("persist dedup cache: %w", err)
	}

	return nil
}

// Close releases the backing store. No-op without a store.
func (c *Cache) Close() error {
	if c.store == nil {
		return nil
	}

	return c.store.Close()
}
