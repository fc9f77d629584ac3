package authz

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"feedreader/internal/domain"
)

// RequestCache memoizes the lookups guards share within a single request.
// One instance belongs to exactly one request and must not be stored
// anywhere that outlives it.
//
// A populated slot is never refreshed. A failed fetch is not cached, so a
// later guard may try again. Concurrent callers share one in-flight fetch.
type RequestCache struct {
	mu    sync.Mutex
	group singleflight.Group
	user  *domain.User
	quota *domain.QuotaSnapshot
}

// NewRequestCache returns an empty cache.
func NewRequestCache() *RequestCache {
	return &RequestCache{}
}

// GetOrFetchUser returns the cached user or calls fetch at most once to load it.
func (c *RequestCache) GetOrFetchUser(fetch func() (*domain.User, error)) (*domain.User, error) {
	return getOrFetch(c, "user", &c.user, fetch)
}

// GetOrFetchQuota returns the cached quota snapshot or calls fetch at most once to load it.
func (c *RequestCache) GetOrFetchQuota(fetch func() (*domain.QuotaSnapshot, error)) (*domain.QuotaSnapshot, error) {
	return getOrFetch(c, "quota", &c.quota, fetch)
}

// User returns the cached user, if any.
func (c *RequestCache) User() (*domain.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user, c.user != nil
}

// Quota returns the cached quota snapshot, if any.
func (c *RequestCache) Quota() (*domain.QuotaSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quota, c.quota != nil
}

func getOrFetch[T any](c *RequestCache, key string, slot **T, fetch func() (*T, error)) (*T, error) {
	if v := load(c, slot); v != nil {
		return v, nil
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		if v := load(c, slot); v != nil {
			return v, nil
		}
		v, err := fetch()
		if err != nil {
			return nil, err
		}
		if v != nil {
			c.mu.Lock()
			*slot = v
			c.mu.Unlock()
		}
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	out, _ := v.(*T)
	return out, nil
}

func load[T any](c *RequestCache, slot **T) *T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *slot
}
