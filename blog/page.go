// Package blog holds the read-path surface of the blog platform that the
// cache layer serves: pagination descriptors, cache key construction, the
// namespace catalog, the store interfaces the relational database implements,
// and the cached read services built on them.
package blog

// Order is one element of a sort specification.
type Order struct {
	Field string
	Desc  bool
}

// PageRequest is a normalized query descriptor for a paged listing. An empty
// Sort means the store's natural order.
type PageRequest struct {
	Page int
	Size int
	Sort []Order
}

// PageOf is shorthand for an unsorted page request.
func PageOf(page, size int) PageRequest {
	return PageRequest{Page: page, Size: size}
}
