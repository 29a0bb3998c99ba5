package blogcache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/karnwald/blogcache/cache"
)

// Option configures the cache stack built by [New].
type Option func(*config)

// Disabled turns the whole subsystem off: every namespace becomes a no-op
// cache that always misses and drops writes.
func Disabled() Option {
	return func(c *config) {
		c.enabled = false
	}
}

// WithL1 sets the maximum entry count of each namespace's in-process tier.
func WithL1(maxEntries int64) Option {
	return func(c *config) {
		c.l1Enabled = true
		c.l1MaxEntries = maxEntries
	}
}

// WithoutL1 disables the in-process tier; reads go straight to the
// distributed tier.
func WithoutL1() Option {
	return func(c *config) {
		c.l1Enabled = false
	}
}

// WithL1TTL sets the in-process tier's base TTL and jitter bound. Entries
// live for ttl plus a uniform random addition up to jitter.
func WithL1TTL(ttl, jitter time.Duration) Option {
	return func(c *config) {
		c.l1TTL = ttl
		c.l1Jitter = jitter
	}
}

// WithRedis configures the distributed tier's connection.
func WithRedis(addr, password string, db int) Option {
	return func(c *config) {
		c.redisEnabled = true
		c.redisAddr = addr
		c.redisPassword = password
		c.redisDB = db
	}
}

// WithRedisClient supplies an existing Redis client for the distributed
// tier. The manager takes ownership and closes it on Close.
func WithRedisClient(rdb *redis.Client) Option {
	return func(c *config) {
		c.redisEnabled = true
		c.redisClient = rdb
	}
}

// WithoutRedis disables the distributed tier; the stack runs local-only.
func WithoutRedis() Option {
	return func(c *config) {
		c.redisEnabled = false
	}
}

// WithTTL sets the distributed-tier TTL for one namespace.
func WithTTL(name string, ttl time.Duration) Option {
	return func(c *config) {
		c.ttls[name] = ttl
	}
}

// WithDefaultTTL sets the distributed-tier TTL for namespaces without a
// specific one.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *config) {
		c.defaultTTL = ttl
	}
}

// WithL2Jitter sets the jitter bound added to every distributed-tier TTL.
func WithL2Jitter(jitter time.Duration) Option {
	return func(c *config) {
		c.l2Jitter = jitter
	}
}

// WithNamespaces replaces the statically configured namespace list reported
// by the manager before any lazy construction.
func WithNamespaces(names ...string) Option {
	return func(c *config) {
		c.names = names
	}
}

// WithLogger sets the logger used for tier-fault warnings and lifecycle
// messages. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetrics registers the cache counters on reg and enables collection.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *config) {
		c.registerer = reg
	}
}

// WithTracing enables OpenTelemetry spans around loader invocations.
func WithTracing(tc cache.TraceConfig) Option {
	return func(c *config) {
		c.tracing = &tc
	}
}
