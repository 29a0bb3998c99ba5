package cache

import (
	"bytes"
	"context"

	"github.com/dgraph-io/ristretto/v2"
)

// L1 is the in-process tier, backed by ristretto. Each namespace owns its
// own ristretto instance so Clear stays scoped to the namespace. Entry TTLs
// come from the configured jitter policy; L1 operations cannot fail.
type L1 struct {
	name   string
	rc     *ristretto.Cache[string, []byte]
	expiry JitterExpiry
	locks  *KeyLock
	// tracing is set by the manager when spans are enabled.
	tracing *TraceConfig
}

// NewL1 creates an L1 tier holding at most maxEntries entries (each entry
// has a cost of 1).
func NewL1(name string, maxEntries int64, expiry JitterExpiry) (*L1, error) {
	rc, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &L1{
		name:   name,
		rc:     rc,
		expiry: expiry,
		locks:  NewKeyLock(),
	}, nil
}

// Name returns the namespace this tier serves.
func (l *L1) Name() string { return l.name }

// Get retrieves a value by key.
func (l *L1) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := l.rc.Get(key)
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(v), true, nil
}

// GetWith returns the cached value for key, loading it once on a miss.
func (l *L1) GetWith(ctx context.Context, key string, loader Loader) ([]byte, error) {
	return loadThrough(ctx, l, l.locks, l.tracing, key, loader)
}

// Put stores a value under key with a jittered TTL. The write is waited on
// so a subsequent Get observes it.
func (l *L1) Put(_ context.Context, key string, val []byte) error {
	l.rc.SetWithTTL(key, bytes.Clone(val), 1, l.expiry.ExpireAfterCreate())
	l.rc.Wait()
	return nil
}

// Evict removes key from the tier.
func (l *L1) Evict(_ context.Context, key string) error {
	l.rc.Del(key)
	l.rc.Wait()
	return nil
}

// Clear drops every entry in this namespace.
func (l *L1) Clear(_ context.Context) error {
	l.rc.Clear()
	return nil
}

// Close releases the underlying ristretto instance.
func (l *L1) Close() {
	l.rc.Close()
}
