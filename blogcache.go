// Package blogcache wires the blog platform's multi-tier cache: an
// in-process ristretto tier plus a Redis tier composed behind one capability,
// with per-key loader locking, jittered TTLs and graceful degradation when a
// tier is absent.
//
// The zero-argument form builds the production defaults; options adjust
// individual pieces:
//
//	caches := blogcache.New(
//		blogcache.WithRedis("localhost:6379", "", 0),
//		blogcache.WithLogger(logger),
//	)
//	defer caches.Close()
//
//	articles := blog.NewArticles(store, taxonomy, caches, blog.ArticlesConfig{})
package blogcache

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/karnwald/blogcache/cache"
)

// New builds the cache manager from the supplied options. Degradation is
// automatic: with no Redis configured the stack runs local-only, with the
// local tier disabled it runs distributed-only, and with [Disabled] (or
// neither tier) every namespace is a no-op cache.
func New(opts ...Option) *cache.Manager {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var rdb *redis.Client
	if cfg.enabled && cfg.redisEnabled {
		switch {
		case cfg.redisClient != nil:
			rdb = cfg.redisClient
		case cfg.redisAddr != "":
			rdb = redis.NewClient(&redis.Options{
				Addr:     cfg.redisAddr,
				Password: cfg.redisPassword,
				DB:       cfg.redisDB,
			})
		default:
			logger.Warn("redis enabled but not configured, falling back to local tier only")
		}
	}

	return cache.NewManager(cache.Config{
		Enabled:      cfg.enabled,
		L1Enabled:    cfg.l1Enabled,
		L1MaxEntries: cfg.l1MaxEntries,
		L1TTL:        cfg.l1TTL,
		L1Jitter:     cfg.l1Jitter,
		TTLs:         cfg.ttls,
		DefaultTTL:   cfg.defaultTTL,
		L2Jitter:     cfg.l2Jitter,
		Names:        cfg.names,
		Logger:       logger,
		Metrics:      cache.NewMetrics(cfg.registerer),
		Tracing:      cfg.tracing,
	}, rdb)
}

// MetricsHandler returns an http.Handler that serves Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
