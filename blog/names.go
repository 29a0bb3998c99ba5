package blog

// Cache namespaces. Each groups related keys under one TTL/jitter policy and
// is immutable for the process lifetime.
const (
	CachePublished      = "articles:published"
	CacheByCategory     = "articles:category"
	CacheByTag          = "articles:tag"
	CacheHot            = "articles:hot"
	CacheCategories     = "categories:all"
	CacheTags           = "tags:all"
	CacheCategoryExists = "categories:exists"
	CacheTagExists      = "tags:exists"
)

// CacheNames returns every namespace the blog read paths use.
func CacheNames() []string {
	return []string{
		CachePublished,
		CacheByCategory,
		CacheByTag,
		CacheHot,
		CacheCategories,
		CacheTags,
		CacheCategoryExists,
		CacheTagExists,
	}
}
