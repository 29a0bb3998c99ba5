package blog

import (
	"context"
	"fmt"

	"github.com/karnwald/blogcache/cache"
)

// ArticlesConfig bounds which article queries are worth caching.
type ArticlesConfig struct {
	// MaxCachedPages caches only the first N pages of a listing; deep pages
	// are rarely revisited and would churn the tiers.
	MaxCachedPages int
	// MaxHotSize caches the top-N ranking only up to this size.
	MaxHotSize int
}

// Articles serves the article read paths through the cache layer. Listings
// beyond the configured windows bypass the cache and hit the store directly.
type Articles struct {
	store    ArticleStore
	taxonomy *Taxonomy
	caches   *cache.Manager
	cfg      ArticlesConfig
}

// NewArticles creates the cached article read service. Zero config fields
// fall back to the platform defaults (3 cached pages, hot size 20).
func NewArticles(store ArticleStore, taxonomy *Taxonomy, caches *cache.Manager, cfg ArticlesConfig) *Articles {
	if cfg.MaxCachedPages <= 0 {
		cfg.MaxCachedPages = 3
	}
	if cfg.MaxHotSize <= 0 {
		cfg.MaxHotSize = 20
	}
	return &Articles{store: store, taxonomy: taxonomy, caches: caches, cfg: cfg}
}

// Published returns one page of the published listing.
func (a *Articles) Published(ctx context.Context, req PageRequest) (ArticlePage, error) {
	if req.Page >= a.cfg.MaxCachedPages {
		return a.store.PublishedPage(ctx, req)
	}
	return cache.GetWithAs(ctx, a.caches.Cache(CachePublished), PageKey(req), func(ctx context.Context) (ArticlePage, error) {
		return a.store.PublishedPage(ctx, req)
	})
}

// PublishedByCategory returns one page of the published listing scoped to a
// category. The category's existence is checked through its own cache first.
func (a *Articles) PublishedByCategory(ctx context.Context, categoryID int64, req PageRequest) (ArticlePage, error) {
	ok, err := a.taxonomy.CategoryExists(ctx, categoryID)
	if err != nil {
		return ArticlePage{}, err
	}
	if !ok {
		return ArticlePage{}, fmt.Errorf("category %d: %w", categoryID, ErrNotFound)
	}
	if req.Page >= a.cfg.MaxCachedPages {
		return a.store.PublishedPageByCategory(ctx, categoryID, req)
	}
	return cache.GetWithAs(ctx, a.caches.Cache(CacheByCategory), ScopedPageKey(categoryID, req), func(ctx context.Context) (ArticlePage, error) {
		return a.store.PublishedPageByCategory(ctx, categoryID, req)
	})
}

// PublishedByTag returns one page of the published listing scoped to a tag.
func (a *Articles) PublishedByTag(ctx context.Context, tagID int64, req PageRequest) (ArticlePage, error) {
	ok, err := a.taxonomy.TagExists(ctx, tagID)
	if err != nil {
		return ArticlePage{}, err
	}
	if !ok {
		return ArticlePage{}, fmt.Errorf("tag %d: %w", tagID, ErrNotFound)
	}
	if req.Page >= a.cfg.MaxCachedPages {
		return a.store.PublishedPageByTag(ctx, tagID, req)
	}
	return cache.GetWithAs(ctx, a.caches.Cache(CacheByTag), ScopedPageKey(tagID, req), func(ctx context.Context) (ArticlePage, error) {
		return a.store.PublishedPageByTag(ctx, tagID, req)
	})
}

// Hot returns the top-size ranking of published articles. Sizes above the
// configured cap bypass the cache so arbitrary requests cannot fill the hot
// namespace.
func (a *Articles) Hot(ctx context.Context, size int) ([]Article, error) {
	if size > a.cfg.MaxHotSize {
		return a.store.HotArticles(ctx, size)
	}
	return cache.GetWithAs(ctx, a.caches.Cache(CacheHot), SizeKey(size), func(ctx context.Context) ([]Article, error) {
		return a.store.HotArticles(ctx, size)
	})
}

// MaxHotSize reports the configured hot-ranking cap (the warmup runner
// clamps to it).
func (a *Articles) MaxHotSize() int { return a.cfg.MaxHotSize }

// MaxCachedPages reports the cached-page window.
func (a *Articles) MaxCachedPages() int { return a.cfg.MaxCachedPages }

// Invalidate is the write-boundary hook for article mutations: creating,
// updating or deleting an article clears every article namespace in both
// tiers.
func (a *Articles) Invalidate(ctx context.Context) {
	for _, name := range []string{CachePublished, CacheByCategory, CacheByTag, CacheHot} {
		_ = a.caches.Cache(name).Clear(ctx)
	}
}
