package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config controls how the [Manager] builds per-namespace caches.
type Config struct {
	// Enabled gates the whole subsystem; when false every namespace gets a
	// no-op cache.
	Enabled bool

	// L1Enabled gates the in-process tier.
	L1Enabled bool
	// L1MaxEntries bounds each namespace's local tier (cost 1 per entry).
	L1MaxEntries int64
	// L1TTL and L1Jitter form the local tier's expiry policy, shared by all
	// namespaces.
	L1TTL    time.Duration
	L1Jitter time.Duration

	// TTLs maps namespace → distributed-tier TTL; DefaultTTL applies to
	// namespaces not listed. L2Jitter decorrelates distributed expiry.
	TTLs       map[string]time.Duration
	DefaultTTL time.Duration
	L2Jitter   time.Duration

	// Names lists the statically configured namespaces reported by
	// CacheNames before any lazy construction happens.
	Names []string

	Logger  *zap.Logger
	Metrics *Metrics
	Tracing *TraceConfig
}

// Manager lazily builds and memoizes one cache per namespace. When both
// tiers are available a namespace gets a [Multi]; with a single tier the
// tier itself is returned (same contract, no wrapping overhead); with none,
// a [Noop].
type Manager struct {
	cfg    Config
	rdb    *redis.Client
	locks  *KeyLock
	logger *zap.Logger

	mu     sync.Mutex
	caches map[string]Cache
	l1s    []*L1
}

// NewManager creates a manager. rdb may be nil when the distributed tier is
// disabled or unavailable; the manager then degrades to local-only.
func NewManager(cfg Config, rdb *redis.Client) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Manager{
		cfg:    cfg,
		rdb:    rdb,
		locks:  NewKeyLock(),
		logger: cfg.Logger,
		caches: make(map[string]Cache),
	}
}

// Cache returns the cache for name, constructing it on first access.
// Concurrent first accesses observe exactly one instance.
func (mgr *Manager) Cache(name string) Cache {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	if c, ok := mgr.caches[name]; ok {
		return c
	}
	c := mgr.build(name)
	mgr.caches[name] = c
	return c
}

func (mgr *Manager) build(name string) Cache {
	if !mgr.cfg.Enabled {
		return NewNoop(name)
	}

	var local Cache
	if mgr.cfg.L1Enabled {
		l1, err := NewL1(name, mgr.cfg.L1MaxEntries, NewJitterExpiry(mgr.cfg.L1TTL, mgr.cfg.L1Jitter))
		if err != nil {
			mgr.logger.Warn("local tier unavailable", zap.String("cache", name), zap.Error(err))
		} else {
			l1.tracing = mgr.cfg.Tracing
			mgr.l1s = append(mgr.l1s, l1)
			local = l1
		}
	}

	var remote Cache
	if mgr.rdb != nil {
		l2 := NewL2(name, mgr.rdb, NewJitterExpiry(mgr.ttlFor(name), mgr.cfg.L2Jitter), mgr.logger)
		l2.tracing = mgr.cfg.Tracing
		remote = l2
	}

	switch {
	case local != nil && remote != nil:
		return NewMulti(name, local, remote, mgr.locks, mgr.logger, mgr.cfg.Metrics, mgr.cfg.Tracing)
	case local != nil:
		return local
	case remote != nil:
		return remote
	default:
		return NewNoop(name)
	}
}

func (mgr *Manager) ttlFor(name string) time.Duration {
	if ttl, ok := mgr.cfg.TTLs[name]; ok {
		return ttl
	}
	return mgr.cfg.DefaultTTL
}

// CacheNames returns the statically configured namespaces plus any created
// lazily since startup.
func (mgr *Manager) CacheNames() []string {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	names := slices.Clone(mgr.cfg.Names)
	for name := range mgr.caches {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

// Ping reports the distributed tier's health. It returns nil when no
// distributed tier is configured.
func (mgr *Manager) Ping(ctx context.Context) error {
	if mgr.rdb == nil {
		return nil
	}
	return mgr.rdb.Ping(ctx).Err()
}

// Close releases every local tier and the Redis client, if any.
func (mgr *Manager) Close() error {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	for _, l1 := range mgr.l1s {
		l1.Close()
	}
	mgr.l1s = nil
	if mgr.rdb != nil {
		return mgr.rdb.Close()
	}
	return nil
}
