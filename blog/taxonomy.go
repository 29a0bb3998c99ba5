package blog

import (
	"context"

	"github.com/karnwald/blogcache/cache"
)

// Taxonomy serves category and tag reads through the cache layer: the full
// lists plus per-id existence checks consulted by the scoped article
// listings.
type Taxonomy struct {
	store  TaxonomyStore
	caches *cache.Manager
}

// NewTaxonomy creates the cached taxonomy read service.
func NewTaxonomy(store TaxonomyStore, caches *cache.Manager) *Taxonomy {
	return &Taxonomy{store: store, caches: caches}
}

// Categories returns all categories, cached under a single key.
func (t *Taxonomy) Categories(ctx context.Context) ([]Category, error) {
	return cache.GetWithAs(ctx, t.caches.Cache(CacheCategories), "all", t.store.Categories)
}

// Tags returns all tags, cached under a single key.
func (t *Taxonomy) Tags(ctx context.Context) ([]Tag, error) {
	return cache.GetWithAs(ctx, t.caches.Cache(CacheTags), "all", t.store.Tags)
}

// CategoryExists reports whether the category exists, cached per id.
func (t *Taxonomy) CategoryExists(ctx context.Context, id int64) (bool, error) {
	return cache.GetWithAs(ctx, t.caches.Cache(CacheCategoryExists), IDKey(id), func(ctx context.Context) (bool, error) {
		return t.store.CategoryExists(ctx, id)
	})
}

// TagExists reports whether the tag exists, cached per id.
func (t *Taxonomy) TagExists(ctx context.Context, id int64) (bool, error) {
	return cache.GetWithAs(ctx, t.caches.Cache(CacheTagExists), IDKey(id), func(ctx context.Context) (bool, error) {
		return t.store.TagExists(ctx, id)
	})
}

// InvalidateCategories is the write-boundary hook for category mutations. A
// category change can reshape every article listing, so the article
// namespaces are cleared along with the category list and existence caches.
func (t *Taxonomy) InvalidateCategories(ctx context.Context) {
	for _, name := range []string{
		CacheCategories, CacheCategoryExists,
		CachePublished, CacheByCategory, CacheByTag, CacheHot,
	} {
		_ = t.caches.Cache(name).Clear(ctx)
	}
}

// InvalidateTags is the write-boundary hook for tag mutations.
func (t *Taxonomy) InvalidateTags(ctx context.Context) {
	for _, name := range []string{
		CacheTags, CacheTagExists,
		CachePublished, CacheByCategory, CacheByTag, CacheHot,
	} {
		_ = t.caches.Cache(name).Clear(ctx)
	}
}
