package blogcache

import (
	"time"

	"github.com/joho/godotenv"

	"github.com/karnwald/blogcache/blog"
	"github.com/karnwald/blogcache/internal/envx"
	"github.com/karnwald/blogcache/warmup"
)

// Environment variables read by FromEnv and the companion config loaders.
// A .env file in the working directory is honored when present.
//
//	BLOG_CACHE_ENABLED           master switch              (default true)
//	BLOG_CACHE_L1_ENABLED        in-process tier            (default true)
//	BLOG_CACHE_L1_MAX_SIZE       entries per namespace      (default 500)
//	BLOG_CACHE_L1_TTL            local TTL                  (default 30s)
//	BLOG_CACHE_L1_JITTER         local jitter bound         (default 10s)
//	BLOG_CACHE_REDIS_ENABLED     distributed tier           (default true)
//	BLOG_CACHE_REDIS_ADDR        host:port                  (default localhost:6379)
//	BLOG_CACHE_REDIS_PASSWORD                               (default empty)
//	BLOG_CACHE_REDIS_DB          database number            (default 0)
//	BLOG_CACHE_DEFAULT_TTL       fallback namespace TTL     (default 5m)
//	BLOG_CACHE_HOT_TTL           articles:hot TTL           (default 1m)
//	BLOG_CACHE_CATEGORY_TTL      categories:all TTL         (default 30m)
//	BLOG_CACHE_TAG_TTL           tags:all TTL               (default 30m)
//	BLOG_CACHE_EXISTS_TTL        existence-check TTLs       (default 5m)
//	BLOG_CACHE_L2_JITTER         distributed jitter bound   (default 30s)
//	BLOG_CACHE_MAX_CACHED_PAGES  cached listing window      (default 3)
//	BLOG_CACHE_MAX_HOT_SIZE      hot ranking cap            (default 20)
//	BLOG_CACHE_WARMUP_ENABLED    warmup pass                (default true)
//	BLOG_CACHE_WARMUP_PAGE_SIZE  warmup page size           (default 10)
//	BLOG_CACHE_WARMUP_HOT_SIZE   warmup hot size            (default 10)
//	BLOG_CACHE_WARMUP_RATE       warmup loads/second, 0=off (default 0)

// FromEnv builds manager options from the environment.
func FromEnv() []Option {
	_ = godotenv.Load()

	opts := []Option{
		WithL1TTL(
			envx.Duration("BLOG_CACHE_L1_TTL", 30*time.Second),
			envx.Duration("BLOG_CACHE_L1_JITTER", 10*time.Second),
		),
		WithDefaultTTL(envx.Duration("BLOG_CACHE_DEFAULT_TTL", 5*time.Minute)),
		WithTTL(blog.CacheHot, envx.Duration("BLOG_CACHE_HOT_TTL", time.Minute)),
		WithTTL(blog.CacheCategories, envx.Duration("BLOG_CACHE_CATEGORY_TTL", 30*time.Minute)),
		WithTTL(blog.CacheTags, envx.Duration("BLOG_CACHE_TAG_TTL", 30*time.Minute)),
		WithTTL(blog.CacheCategoryExists, envx.Duration("BLOG_CACHE_EXISTS_TTL", 5*time.Minute)),
		WithTTL(blog.CacheTagExists, envx.Duration("BLOG_CACHE_EXISTS_TTL", 5*time.Minute)),
		WithL2Jitter(envx.Duration("BLOG_CACHE_L2_JITTER", 30*time.Second)),
	}

	if !envx.Bool("BLOG_CACHE_ENABLED", true) {
		opts = append(opts, Disabled())
	}

	if envx.Bool("BLOG_CACHE_L1_ENABLED", true) {
		opts = append(opts, WithL1(envx.Int64("BLOG_CACHE_L1_MAX_SIZE", 500)))
	} else {
		opts = append(opts, WithoutL1())
	}

	if envx.Bool("BLOG_CACHE_REDIS_ENABLED", true) {
		opts = append(opts, WithRedis(
			envx.String("BLOG_CACHE_REDIS_ADDR", "localhost:6379"),
			envx.String("BLOG_CACHE_REDIS_PASSWORD", ""),
			envx.Int("BLOG_CACHE_REDIS_DB", 0),
		))
	} else {
		opts = append(opts, WithoutRedis())
	}

	return opts
}

// ArticlesFromEnv builds the article service's caching windows from the
// environment.
func ArticlesFromEnv() blog.ArticlesConfig {
	return blog.ArticlesConfig{
		MaxCachedPages: envx.Int("BLOG_CACHE_MAX_CACHED_PAGES", 3),
		MaxHotSize:     envx.Int("BLOG_CACHE_MAX_HOT_SIZE", 20),
	}
}

// WarmupFromEnv builds the warmup configuration from the environment. The
// pass is enabled only when both the master switch and the warmup flag are
// set.
func WarmupFromEnv() warmup.Config {
	return warmup.Config{
		Enabled:  envx.Bool("BLOG_CACHE_ENABLED", true) && envx.Bool("BLOG_CACHE_WARMUP_ENABLED", true),
		PageSize: envx.Int("BLOG_CACHE_WARMUP_PAGE_SIZE", 10),
		HotSize:  envx.Int("BLOG_CACHE_WARMUP_HOT_SIZE", 10),
		Rate:     envx.Float("BLOG_CACHE_WARMUP_RATE", 0),
	}
}
