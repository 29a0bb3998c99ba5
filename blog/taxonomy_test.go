package blog

import "testing"

func TestTaxonomy_ListsAreCached(t *testing.T) {
	ctx := t.Context()
	_, taxonomy, _, store := newTestServices(t)

	for range 3 {
		cats, err := taxonomy.Categories(ctx)
		if err != nil {
			t.Fatalf("Categories: %v", err)
		}
		if len(cats) != 1 || cats[0].Slug != "go" {
			t.Fatalf("Categories = %+v", cats)
		}
	}
	for range 3 {
		if _, err := taxonomy.Tags(ctx); err != nil {
			t.Fatalf("Tags: %v", err)
		}
	}
	if n := store.categoryCalls.Load(); n != 1 {
		t.Fatalf("category store hit %d times, want 1", n)
	}
	if n := store.tagCalls.Load(); n != 1 {
		t.Fatalf("tag store hit %d times, want 1", n)
	}
}

func TestTaxonomy_ExistsCachedPerID(t *testing.T) {
	ctx := t.Context()
	_, taxonomy, _, store := newTestServices(t)

	for range 3 {
		ok, err := taxonomy.CategoryExists(ctx, 1)
		if err != nil {
			t.Fatalf("CategoryExists: %v", err)
		}
		if !ok {
			t.Fatal("CategoryExists(1) = false")
		}
	}
	if ok, err := taxonomy.CategoryExists(ctx, 99); err != nil || ok {
		t.Fatalf("CategoryExists(99) = %v, %v; want false, nil", ok, err)
	}
	if n := store.existsCalls.Load(); n != 2 {
		t.Fatalf("exists store hit %d times, want 2 (one per id)", n)
	}
}

func TestTaxonomy_InvalidateCascadesToArticles(t *testing.T) {
	ctx := t.Context()
	articles, taxonomy, articleStore, taxStore := newTestServices(t)

	if _, err := articles.Published(ctx, PageOf(0, 10)); err != nil {
		t.Fatalf("Published: %v", err)
	}
	if _, err := taxonomy.Categories(ctx); err != nil {
		t.Fatalf("Categories: %v", err)
	}

	// A category mutation reshapes listings, so both the taxonomy caches and
	// the article namespaces reload afterwards.
	taxonomy.InvalidateCategories(ctx)

	if _, err := articles.Published(ctx, PageOf(0, 10)); err != nil {
		t.Fatalf("Published after invalidate: %v", err)
	}
	if _, err := taxonomy.Categories(ctx); err != nil {
		t.Fatalf("Categories after invalidate: %v", err)
	}
	if n := articleStore.pageCalls.Load(); n != 2 {
		t.Fatalf("page store hit %d times, want 2", n)
	}
	if n := taxStore.categoryCalls.Load(); n != 2 {
		t.Fatalf("category store hit %d times, want 2", n)
	}
}
