package budscan

import (
	"context"
	"reflect"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryCache is an in-process Cache with per-entry expiry.
type MemoryCache struct {
	c *cache.Cache
}

// NewMemoryCache returns a cache whose entries expire after ttl and are
// purged every cleanup interval.
func NewMemoryCache(ttl, cleanup time.Duration) *MemoryCache {
	return &MemoryCache{c: cache.New(ttl, cleanup)}
}

func (m *MemoryCache) Key(prefix, value string) string { return prefix + ":" + value }

// Get copies the cached value into dest, which must be a non-nil pointer to
// the stored value's type.
func (m *MemoryCache) Get(_ context.Context, key string, dest any) bool {
	v, ok := m.c.Get(key)
	if !ok {
		return false
	}
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return false
	}
	sv := reflect.ValueOf(v)
	if !sv.IsValid() || !sv.Type().AssignableTo(dv.Elem().Type()) {
		return false
	}
	dv.Elem().Set(sv)
	return true
}

func (m *MemoryCache) Set(_ context.Context, key string, value any) {
	m.c.Set(key, value, cache.DefaultExpiration)
}
