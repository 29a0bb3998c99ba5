package blogcache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/karnwald/blogcache/cache"
)

// config holds the internal configuration assembled via functional options.
type config struct {
	enabled bool

	l1Enabled    bool
	l1MaxEntries int64
	l1TTL        time.Duration
	l1Jitter     time.Duration

	redisEnabled  bool
	redisAddr     string
	redisPassword string
	redisDB       int
	redisClient   *redis.Client

	ttls       map[string]time.Duration
	defaultTTL time.Duration
	l2Jitter   time.Duration
	names      []string

	logger     *zap.Logger
	registerer prometheus.Registerer
	tracing    *cache.TraceConfig
}
