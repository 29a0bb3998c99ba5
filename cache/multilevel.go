package cache

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Multi composes a local and a distributed tier behind the [Cache]
// capability. Reads check local first, then distributed (promoting hits back
// into local); writes go distributed-first so other nodes observe the fresh
// value even if this node's local write races. Tier failures are logged and
// absorbed — only loader failures reach the caller.
type Multi struct {
	name    string
	local   Cache
	remote  Cache
	locks   *KeyLock
	logger  *zap.Logger
	metrics *Metrics
	tracing *TraceConfig
}

// NewMulti creates a two-tier cache. locks is shared across namespaces by
// the manager; metrics and tracing may be nil.
func NewMulti(name string, local, remote Cache, locks *KeyLock, logger *zap.Logger, metrics *Metrics, tracing *TraceConfig) *Multi {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Multi{
		name:    name,
		local:   local,
		remote:  remote,
		locks:   locks,
		logger:  logger,
		metrics: metrics,
		tracing: tracing,
	}
}

// Name returns the namespace this cache serves.
func (m *Multi) Name() string { return m.name }

// lookup checks local then distributed, promoting a distributed hit into the
// local tier. Promotion is best-effort: a failed local write never fails the
// read.
func (m *Multi) lookup(ctx context.Context, key string) ([]byte, string, bool) {
	if v, ok := m.safeGet(ctx, m.local, "local", key); ok {
		return v, "local", true
	}
	v, ok := m.safeGet(ctx, m.remote, "distributed", key)
	if !ok {
		return nil, "", false
	}
	m.safePut(ctx, m.local, "local", key, v)
	return v, "distributed", true
}

// Get retrieves a value by key, never invoking a loader.
func (m *Multi) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if v, tier, ok := m.lookup(ctx, key); ok {
		m.metrics.hit(m.name, tier)
		return v, true, nil
	}
	m.metrics.miss(m.name)
	return nil, false, nil
}

// GetWith returns the cached value for key. On a total miss it acquires the
// per-key lock, re-checks both tiers (another goroutine may have finished
// loading while this one waited), and only then invokes loader — so at most
// one load per (namespace, key) is in flight in this process. On success the
// value is written distributed-first, then locally. A loader error is
// wrapped and returned; nothing is cached.
func (m *Multi) GetWith(ctx context.Context, key string, loader Loader) ([]byte, error) {
	if v, tier, ok := m.lookup(ctx, key); ok {
		m.metrics.hit(m.name, tier)
		return v, nil
	}

	release := m.locks.Acquire(lockKey(m.name, key))
	defer release()

	if v, tier, ok := m.lookup(ctx, key); ok {
		m.metrics.hit(m.name, tier)
		return v, nil
	}
	m.metrics.miss(m.name)

	lctx, end := m.tracing.startLoad(ctx, m.name, key)
	v, err := loader(lctx)
	end(err)
	if err != nil {
		m.metrics.load(m.name, "error")
		return nil, fmt.Errorf("cache %q: load key %q: %w", m.name, key, err)
	}
	m.metrics.load(m.name, "success")

	m.safePut(ctx, m.remote, "distributed", key, v)
	m.safePut(ctx, m.local, "local", key, v)
	return v, nil
}

// Put writes the value through both tiers, distributed first.
func (m *Multi) Put(ctx context.Context, key string, val []byte) error {
	m.safePut(ctx, m.remote, "distributed", key, val)
	m.safePut(ctx, m.local, "local", key, val)
	return nil
}

// Evict removes key from both tiers. A failure on one tier does not prevent
// attempting the other.
func (m *Multi) Evict(ctx context.Context, key string) error {
	m.safeEvict(ctx, m.local, "local", key)
	m.safeEvict(ctx, m.remote, "distributed", key)
	return nil
}

// Clear clears both tiers, each independently of the other's outcome.
func (m *Multi) Clear(ctx context.Context) error {
	m.safeClear(ctx, m.local, "local")
	m.safeClear(ctx, m.remote, "distributed")
	return nil
}

func (m *Multi) safeGet(ctx context.Context, c Cache, tier, key string) ([]byte, bool) {
	v, ok, err := c.Get(ctx, key)
	if err != nil {
		m.metrics.fault(m.name, tier, "get")
		m.logger.Warn("cache get failed", zap.String("cache", m.name), zap.String("tier", tier), zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return v, ok
}

func (m *Multi) safePut(ctx context.Context, c Cache, tier, key string, val []byte) {
	if err := c.Put(ctx, key, val); err != nil {
		m.metrics.fault(m.name, tier, "put")
		m.logger.Warn("cache put failed", zap.String("cache", m.name), zap.String("tier", tier), zap.String("key", key), zap.Error(err))
	}
}

func (m *Multi) safeEvict(ctx context.Context, c Cache, tier, key string) {
	if err := c.Evict(ctx, key); err != nil {
		m.metrics.fault(m.name, tier, "evict")
		m.logger.Warn("cache evict failed", zap.String("cache", m.name), zap.String("tier", tier), zap.String("key", key), zap.Error(err))
	}
}

func (m *Multi) safeClear(ctx context.Context, c Cache, tier string) {
	if err := c.Clear(ctx); err != nil {
		m.metrics.fault(m.name, tier, "clear")
		m.logger.Warn("cache clear failed", zap.String("cache", m.name), zap.String("tier", tier), zap.Error(err))
	}
}
