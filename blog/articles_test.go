package blog

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/karnwald/blogcache/cache"
)

type fakeArticleStore struct {
	pageCalls     atomic.Int32
	categoryCalls atomic.Int32
	tagCalls      atomic.Int32
	hotCalls      atomic.Int32
	err           error
}

func (s *fakeArticleStore) PublishedPage(_ context.Context, req PageRequest) (ArticlePage, error) {
	s.pageCalls.Add(1)
	if s.err != nil {
		return ArticlePage{}, s.err
	}
	return ArticlePage{Page: req.Page, Size: req.Size, TotalElements: 42, TotalPages: 5}, nil
}

func (s *fakeArticleStore) PublishedPageByCategory(_ context.Context, id int64, req PageRequest) (ArticlePage, error) {
	s.categoryCalls.Add(1)
	return ArticlePage{Page: req.Page, Size: req.Size, TotalElements: id}, nil
}

func (s *fakeArticleStore) PublishedPageByTag(_ context.Context, id int64, req PageRequest) (ArticlePage, error) {
	s.tagCalls.Add(1)
	return ArticlePage{Page: req.Page, Size: req.Size, TotalElements: id}, nil
}

func (s *fakeArticleStore) HotArticles(_ context.Context, limit int) ([]Article, error) {
	s.hotCalls.Add(1)
	out := make([]Article, limit)
	for i := range out {
		out[i] = Article{ID: int64(i + 1), Title: "hot"}
	}
	return out, nil
}

type fakeTaxonomyStore struct {
	categoryCalls atomic.Int32
	tagCalls      atomic.Int32
	existsCalls   atomic.Int32
	missingIDs    map[int64]bool
}

func (s *fakeTaxonomyStore) Categories(context.Context) ([]Category, error) {
	s.categoryCalls.Add(1)
	return []Category{{ID: 1, Name: "go", Slug: "go"}}, nil
}

func (s *fakeTaxonomyStore) Tags(context.Context) ([]Tag, error) {
	s.tagCalls.Add(1)
	return []Tag{{ID: 1, Name: "cache", Slug: "cache"}}, nil
}

func (s *fakeTaxonomyStore) CategoryExists(_ context.Context, id int64) (bool, error) {
	s.existsCalls.Add(1)
	return !s.missingIDs[id], nil
}

func (s *fakeTaxonomyStore) TagExists(_ context.Context, id int64) (bool, error) {
	s.existsCalls.Add(1)
	return !s.missingIDs[id], nil
}

func newTestServices(t *testing.T) (*Articles, *Taxonomy, *fakeArticleStore, *fakeTaxonomyStore) {
	t.Helper()
	mgr := cache.NewManager(cache.Config{
		Enabled:      true,
		L1Enabled:    true,
		L1MaxEntries: 1000,
		L1TTL:        time.Minute,
		DefaultTTL:   time.Minute,
	}, nil)
	t.Cleanup(func() { mgr.Close() })

	articleStore := &fakeArticleStore{}
	taxonomyStore := &fakeTaxonomyStore{missingIDs: map[int64]bool{99: true}}
	taxonomy := NewTaxonomy(taxonomyStore, mgr)
	articles := NewArticles(articleStore, taxonomy, mgr, ArticlesConfig{})
	return articles, taxonomy, articleStore, taxonomyStore
}

func TestArticles_PublishedIsCached(t *testing.T) {
	ctx := t.Context()
	articles, _, store, _ := newTestServices(t)

	req := PageOf(0, 10)
	for range 3 {
		page, err := articles.Published(ctx, req)
		if err != nil {
			t.Fatalf("Published: %v", err)
		}
		if page.TotalElements != 42 {
			t.Fatalf("TotalElements = %d, want 42", page.TotalElements)
		}
	}
	if n := store.pageCalls.Load(); n != 1 {
		t.Fatalf("store hit %d times, want 1", n)
	}

	// A different page is a different key.
	if _, err := articles.Published(ctx, PageOf(1, 10)); err != nil {
		t.Fatalf("Published page 1: %v", err)
	}
	if n := store.pageCalls.Load(); n != 2 {
		t.Fatalf("store hit %d times after second page, want 2", n)
	}
}

func TestArticles_DeepPagesBypassCache(t *testing.T) {
	ctx := t.Context()
	articles, _, store, _ := newTestServices(t)

	// Default window caches pages 0..2; page 3 goes straight to the store
	// every time.
	for range 2 {
		if _, err := articles.Published(ctx, PageOf(3, 10)); err != nil {
			t.Fatalf("Published: %v", err)
		}
	}
	if n := store.pageCalls.Load(); n != 2 {
		t.Fatalf("store hit %d times for an uncacheable page, want 2", n)
	}
}

func TestArticles_ByCategory(t *testing.T) {
	ctx := t.Context()
	articles, _, store, taxStore := newTestServices(t)

	for range 3 {
		page, err := articles.PublishedByCategory(ctx, 7, PageOf(0, 10))
		if err != nil {
			t.Fatalf("PublishedByCategory: %v", err)
		}
		if page.TotalElements != 7 {
			t.Fatalf("TotalElements = %d, want 7", page.TotalElements)
		}
	}
	if n := store.categoryCalls.Load(); n != 1 {
		t.Fatalf("store hit %d times, want 1", n)
	}
	// The existence check is cached too.
	if n := taxStore.existsCalls.Load(); n != 1 {
		t.Fatalf("exists check hit the store %d times, want 1", n)
	}
}

func TestArticles_MissingCategory(t *testing.T) {
	ctx := t.Context()
	articles, _, store, _ := newTestServices(t)

	_, err := articles.PublishedByCategory(ctx, 99, PageOf(0, 10))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if n := store.categoryCalls.Load(); n != 0 {
		t.Fatal("listing store queried for a missing category")
	}
}

func TestArticles_MissingTag(t *testing.T) {
	ctx := t.Context()
	articles, _, store, _ := newTestServices(t)

	_, err := articles.PublishedByTag(ctx, 99, PageOf(0, 10))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if n := store.tagCalls.Load(); n != 0 {
		t.Fatal("listing store queried for a missing tag")
	}
}

func TestArticles_HotCap(t *testing.T) {
	ctx := t.Context()
	articles, _, store, _ := newTestServices(t)

	for range 3 {
		hot, err := articles.Hot(ctx, 10)
		if err != nil {
			t.Fatalf("Hot: %v", err)
		}
		if len(hot) != 10 {
			t.Fatalf("len(hot) = %d, want 10", len(hot))
		}
	}
	if n := store.hotCalls.Load(); n != 1 {
		t.Fatalf("store hit %d times for a cacheable size, want 1", n)
	}

	// Above the cap (default 20) every request goes to the store.
	for range 2 {
		if _, err := articles.Hot(ctx, 50); err != nil {
			t.Fatalf("Hot over cap: %v", err)
		}
	}
	if n := store.hotCalls.Load(); n != 3 {
		t.Fatalf("store hit %d times, want 3", n)
	}
}

func TestArticles_LoaderErrorPropagates(t *testing.T) {
	ctx := t.Context()
	articles, _, store, _ := newTestServices(t)

	boom := errors.New("db down")
	store.err = boom
	if _, err := articles.Published(ctx, PageOf(0, 10)); !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped %v", err, boom)
	}

	// Nothing was cached, so recovery reaches the store again.
	store.err = nil
	if _, err := articles.Published(ctx, PageOf(0, 10)); err != nil {
		t.Fatalf("Published after recovery: %v", err)
	}
	if n := store.pageCalls.Load(); n != 2 {
		t.Fatalf("store hit %d times, want 2", n)
	}
}

func TestArticles_InvalidateClearsListings(t *testing.T) {
	ctx := t.Context()
	articles, _, store, _ := newTestServices(t)

	if _, err := articles.Published(ctx, PageOf(0, 10)); err != nil {
		t.Fatalf("Published: %v", err)
	}
	if _, err := articles.Hot(ctx, 10); err != nil {
		t.Fatalf("Hot: %v", err)
	}

	articles.Invalidate(ctx)

	if _, err := articles.Published(ctx, PageOf(0, 10)); err != nil {
		t.Fatalf("Published after invalidate: %v", err)
	}
	if _, err := articles.Hot(ctx, 10); err != nil {
		t.Fatalf("Hot after invalidate: %v", err)
	}
	if n := store.pageCalls.Load(); n != 2 {
		t.Fatalf("page store hit %d times, want 2 (reload after invalidate)", n)
	}
	if n := store.hotCalls.Load(); n != 2 {
		t.Fatalf("hot store hit %d times, want 2 (reload after invalidate)", n)
	}
}
