package blog

import (
	"strconv"
	"strings"
)

// Cache key construction. Keys must be total and deterministic: identical
// descriptors always produce identical keys, and logically different queries
// never collide. The sort rendering is canonical (trimmed, lower-cased,
// fixed asc/desc notation) so equivalent spellings of the same sort land on
// the same key.

// PageKey builds the cache key for a paged listing.
func PageKey(req PageRequest) string {
	var b strings.Builder
	b.WriteString("page:")
	b.WriteString(strconv.Itoa(req.Page))
	b.WriteString(":")
	b.WriteString(strconv.Itoa(req.Size))
	b.WriteString(":")
	b.WriteString(sortKey(req.Sort))
	return b.String()
}

// ScopedPageKey builds the cache key for a paged listing scoped to an entity
// id (a category or tag).
func ScopedPageKey(id int64, req PageRequest) string {
	return "id:" + strconv.FormatInt(id, 10) + ":" + PageKey(req)
}

// SizeKey builds the cache key for a top-N query.
func SizeKey(size int) string {
	return "size:" + strconv.Itoa(size)
}

// IDKey builds the cache key for a single-entity lookup such as an
// existence check.
func IDKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

func sortKey(orders []Order) string {
	if len(orders) == 0 {
		return "unsorted"
	}
	parts := make([]string, 0, len(orders))
	for _, o := range orders {
		field := strings.ToLower(strings.TrimSpace(o.Field))
		dir := "asc"
		if o.Desc {
			dir = "desc"
		}
		parts = append(parts, field+":"+dir)
	}
	return strings.Join(parts, ",")
}
