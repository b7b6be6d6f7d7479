package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// ErrWriteFailed is returned by Flush when the store rejected at least one entry.
var ErrWriteFailed = errors.New("write failed")

type cacheEntry struct {
	value any
	dirty bool
}

// Cache mirrors decoded bucket values in memory in front of an Adapter.
// Values returned by Get are shared with the cache and must not be mutated in place.
type Cache struct {
	adapter *Adapter

	mu      sync.Mutex
	entries map[string]*cacheEntry
}

func NewCache(adapter *Adapter) *Cache {
	return &Cache{
		adapter: adapter,
		entries: make(map[string]*cacheEntry),
	}
}

// Adapter returns the adapter the cache reads through.
func (c *Cache) Adapter() *Adapter {
	return c.adapter
}

// Get serves key from memory, reading it through the adapter on a miss.
func Get[T any](ctx context.Context, c *Cache, key string, def T) T {
	value, _ := Fetch(ctx, c, key, def)
	return value
}

// Fetch is Get that reports a failed store read as ErrReadFailed.
// The default returned for a failed read is not cached, so the next call reads through again.
func Fetch[T any](ctx context.Context, c *Cache, key string, def T) (T, error) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	c.mu.Unlock()
	if ok {
		if value, ok := entry.value.(T); ok {
			return value, nil
		}
		slog.Default().Debug("Cached value has a different type, reading through", "key", key)
		return Load(ctx, c.adapter, key, def)
	}

	value, err := Load(ctx, c.adapter, key, def)
	if err != nil {
		return def, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		c.entries[key] = &cacheEntry{value: value}
	}
	return value, nil
}

// Set replaces the in-memory value of key and marks it dirty.
// Nothing is written until Flush.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &cacheEntry{value: value, dirty: true}
}

// Flush writes every dirty entry through the adapter.
// Entries the store rejected stay dirty.
func (c *Cache) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for key, entry := range c.entries {
		if entry.dirty {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var failed []string
	for _, key := range keys {
		entry := c.entries[key]
		if !c.adapter.Write(ctx, key, entry.value) {
			failed = append(failed, key)
			continue
		}
		entry.dirty = false
	}
	if len(failed) > 0 {
		return fmt.Errorf("flush %v > %w", failed, ErrWriteFailed)
	}
	return nil
}

// Invalidate drops the given keys from memory, or every key when none are given.
// Unflushed values of dropped keys are discarded.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(keys) == 0 {
		c.entries = make(map[string]*cacheEntry)
		return
	}
	for _, key := range keys {
		delete(c.entries, key)
	}
}
