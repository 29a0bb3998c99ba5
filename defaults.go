package blogcache

import (
	"time"

	"github.com/karnwald/blogcache/blog"
)

// defaultConfig returns the production defaults: caching and the
// distributed tier enabled, a 500-entry local tier with a 30s+10s-jitter
// TTL, 5 minute listings, a 1 minute hot ranking and 30 minute taxonomy
// lists. Options override individual fields.
func defaultConfig() config {
	return config{
		enabled:      true,
		l1Enabled:    true,
		l1MaxEntries: 500,
		l1TTL:        30 * time.Second,
		l1Jitter:     10 * time.Second,
		redisEnabled: true,
		ttls: map[string]time.Duration{
			blog.CachePublished:      5 * time.Minute,
			blog.CacheByCategory:     5 * time.Minute,
			blog.CacheByTag:          5 * time.Minute,
			blog.CacheHot:            time.Minute,
			blog.CacheCategories:     30 * time.Minute,
			blog.CacheTags:           30 * time.Minute,
			blog.CacheCategoryExists: 5 * time.Minute,
			blog.CacheTagExists:      5 * time.Minute,
		},
		defaultTTL: 5 * time.Minute,
		l2Jitter:   30 * time.Second,
		names:      blog.CacheNames(),
	}
}
