// Package cache implements the multi-tier caching layer of the blog
// platform: an in-process L1 backed by ristretto, a Redis-backed L2, and a
// composing multi-level cache that adds read-through promotion,
// write-through ordering and per-key loader coordination.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Loader produces the value for a missing key, typically by querying the
// relational store. A loader failure is the one error the cache layer never
// swallows.
type Loader func(ctx context.Context) ([]byte, error)

// Cache is the capability contract shared by every tier and by the
// composing multi-level cache. Tier failures (a down Redis, for example) are
// absorbed: Get reports a miss, Put/Evict/Clear become no-ops for the
// failing tier. Only a Loader error propagates out of GetWith.
type Cache interface {
	// Name returns the namespace this cache serves.
	Name() string

	// Get retrieves a value by key. The boolean indicates a cache hit.
	// This overload never invokes a loader.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// GetWith returns the cached value for key. On a miss it invokes
	// loader under a per-key lock so that at most one load per key is in
	// flight in this process, stores the result, and returns it.
	GetWith(ctx context.Context, key string, loader Loader) ([]byte, error)

	// Put stores a value under key using the namespace TTL policy.
	Put(ctx context.Context, key string, val []byte) error

	// Evict removes key from the cache.
	Evict(ctx context.Context, key string) error

	// Clear removes every entry in this namespace.
	Clear(ctx context.Context) error
}

// ErrTypeMismatch reports that a cached payload could not be decoded into
// the requested type. This is programmer error (or a serialization bug
// between releases), not a transient fault, so it is surfaced instead of
// being treated as a miss.
var ErrTypeMismatch = errors.New("cache: value is not of the requested type")

// GetAs retrieves key and decodes the JSON payload into T. A decode failure
// wraps ErrTypeMismatch.
func GetAs[T any](ctx context.Context, c Cache, key string) (T, bool, error) {
	var out T
	raw, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return out, false, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, false, fmt.Errorf("%w: cache %q key %q: %v", ErrTypeMismatch, c.Name(), key, err)
	}
	return out, true, nil
}

// GetWithAs is the typed counterpart of [Cache.GetWith]: on a miss it calls
// load, stores the JSON encoding of the result, and returns it. A cached
// payload that does not decode into T wraps ErrTypeMismatch rather than
// falling through to the loader, since silently reloading would mask a
// serialization or versioning bug.
func GetWithAs[T any](ctx context.Context, c Cache, key string, load func(ctx context.Context) (T, error)) (T, error) {
	var out T
	raw, err := c.GetWith(ctx, key, func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("%w: cache %q key %q: %v", ErrTypeMismatch, c.Name(), key, err)
	}
	return out, nil
}

// PutAs stores the JSON encoding of v under key.
func PutAs[T any](ctx context.Context, c Cache, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Put(ctx, key, raw)
}

// lockKey scopes a per-key lock to its namespace so that equal keys in
// different caches never share a mutex.
func lockKey(name, key string) string {
	return name + "\x00" + key
}

// loadThrough is the locked, double-checked read-through protocol shared by
// the single-tier caches: check, acquire the key lock, check again (another
// goroutine may have finished loading while this one waited), and only then
// load and store. Loader errors are wrapped and surfaced; nothing is cached
// on failure.
func loadThrough(ctx context.Context, c Cache, locks *KeyLock, tracing *TraceConfig, key string, loader Loader) ([]byte, error) {
	if v, ok, _ := c.Get(ctx, key); ok {
		return v, nil
	}

	release := locks.Acquire(lockKey(c.Name(), key))
	defer release()

	if v, ok, _ := c.Get(ctx, key); ok {
		return v, nil
	}

	lctx, end := tracing.startLoad(ctx, c.Name(), key)
	v, err := loader(lctx)
	end(err)
	if err != nil {
		return nil, fmt.Errorf("cache %q: load key %q: %w", c.Name(), key, err)
	}
	_ = c.Put(ctx, key, v)
	return v, nil
}
