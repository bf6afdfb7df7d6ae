// Package credcache memoizes expensive upstream acquisitions (login
// cookies, bearer tokens) for the lifetime of the process. One Cache is
// constructed at startup and injected into every consumer; there is no
// package-level state.
package credcache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// Cache is a TTL-keyed string cache. The mutex guards the map only:
// refresh callbacks run outside the lock, so two concurrent misses may
// both refresh and the last write wins. Acquired values are
// interchangeable, so a duplicate acquisition is tolerated in exchange
// for never blocking readers on a slow upstream login.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// New creates a cache using the wall clock.
func New() *Cache {
	return NewWithClock(time.Now)
}

// NewWithClock creates a cache with an injected clock.
func NewWithClock(now func() time.Time) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     now,
	}
}

// Get returns the cached value for key if present and unexpired.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || e.value == "" || !c.now().Before(e.expiresAt) {
		return "", false
	}
	return e.value, true
}

// Put stores value under key, expiring ttl from now.
func (c *Cache) Put(key, value string, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

// Invalidate drops the entry for key. Used when a consumer observes the
// upstream rejecting the cached value before its TTL ran out.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Reset drops every entry. Intended for tests.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// GetOrRefresh returns the cached value for key, or calls refresh
// synchronously on a miss or expiry and stores the result for ttl.
func (c *Cache) GetOrRefresh(ctx context.Context, key string, ttl time.Duration, refresh func(context.Context) (string, error)) (string, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := refresh(ctx)
	if err != nil {
		return "", err
	}
	c.Put(key, v, ttl)
	return v, nil
}

// WithRetry runs call with a cached credential and retries exactly once
// on an unauthorized result: the entry is evicted, refresh produces a
// fresh credential, and call runs again. A second unauthorized result is
// returned as-is so callers never loop against a broken credential
// source.
func WithRetry[T any](
	ctx context.Context,
	c *Cache,
	key string,
	ttl time.Duration,
	refresh func(context.Context) (string, error),
	call func(ctx context.Context, cred string) (T, error),
	unauthorized func(T) bool,
) (T, error) {
	var zero T

	cred, err := c.GetOrRefresh(ctx, key, ttl, refresh)
	if err != nil {
		return zero, err
	}

	res, err := call(ctx, cred)
	if err != nil {
		return zero, err
	}
	if !unauthorized(res) {
		return res, nil
	}

	c.Invalidate(key)
	fresh, err := c.GetOrRefresh(ctx, key, ttl, refresh)
	if err != nil {
		return zero, err
	}
	return call(ctx, fresh)
}
