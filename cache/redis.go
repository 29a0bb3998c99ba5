package cache

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// L2 is the distributed tier, backed by Redis and shared across processes.
// Keys are prefixed with the namespace so Clear only touches this cache's
// entries. All operations fail soft: when Redis is unreachable a Get reports
// a miss and writes are discarded, with a warning logged — a cache outage
// degrades latency, never correctness.
type L2 struct {
	name   string
	rdb    *redis.Client
	expiry JitterExpiry
	locks  *KeyLock
	logger *zap.Logger
	// tracing is set by the manager when spans are enabled.
	tracing *TraceConfig
}

// NewL2 creates an L2 tier over an existing Redis client. The client's own
// dial/read timeouts bound how long a hung call can stall a request.
func NewL2(name string, rdb *redis.Client, expiry JitterExpiry, logger *zap.Logger) *L2 {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &L2{
		name:   name,
		rdb:    rdb,
		expiry: expiry,
		locks:  NewKeyLock(),
		logger: logger,
	}
}

// Name returns the namespace this tier serves.
func (l *L2) Name() string { return l.name }

func (l *L2) prefixed(key string) string {
	return l.name + ":" + key
}

// Get retrieves a value by key. Returns a miss when the key is absent or
// Redis is unreachable.
func (l *L2) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := l.rdb.Get(ctx, l.prefixed(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			l.logger.Warn("redis get failed", zap.String("cache", l.name), zap.String("key", key), zap.Error(err))
		}
		return nil, false, nil
	}
	return val, true, nil
}

// GetWith returns the cached value for key, loading it once on a miss.
func (l *L2) GetWith(ctx context.Context, key string, loader Loader) ([]byte, error) {
	return loadThrough(ctx, l, l.locks, l.tracing, key, loader)
}

// Put stores a value under key with a jittered namespace TTL.
func (l *L2) Put(ctx context.Context, key string, val []byte) error {
	if err := l.rdb.Set(ctx, l.prefixed(key), val, l.expiry.ExpireAfterCreate()).Err(); err != nil {
		l.logger.Warn("redis set failed", zap.String("cache", l.name), zap.String("key", key), zap.Error(err))
	}
	return nil
}

// Evict removes key from the tier.
func (l *L2) Evict(ctx context.Context, key string) error {
	if err := l.rdb.Del(ctx, l.prefixed(key)).Err(); err != nil {
		l.logger.Warn("redis del failed", zap.String("cache", l.name), zap.String("key", key), zap.Error(err))
	}
	return nil
}

// Clear removes every key under this namespace's prefix, scanning in batches
// so large namespaces do not block Redis.
func (l *L2) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := l.rdb.Scan(ctx, cursor, l.prefixed("*"), 100).Result()
		if err != nil {
			l.logger.Warn("redis scan failed", zap.String("cache", l.name), zap.Error(err))
			return nil
		}
		if len(keys) > 0 {
			if err := l.rdb.Del(ctx, keys...).Err(); err != nil {
				l.logger.Warn("redis del failed", zap.String("cache", l.name), zap.Error(err))
				return nil
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Ping checks the Redis connection.
func (l *L2) Ping(ctx context.Context) error {
	return l.rdb.Ping(ctx).Err()
}
