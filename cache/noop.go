package cache

import "context"

// Noop is the cache handed out when caching is disabled entirely: every Get
// misses, writes are dropped, and GetWith simply runs the loader. Calling
// code never needs to branch on cache availability.
type Noop struct {
	name string
}

// NewNoop creates a no-op cache for the given namespace.
func NewNoop(name string) *Noop {
	return &Noop{name: name}
}

// Name returns the namespace this cache serves.
func (n *Noop) Name() string { return n.name }

// Get always reports a miss.
func (n *Noop) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

// GetWith invokes the loader directly.
func (n *Noop) GetWith(ctx context.Context, _ string, loader Loader) ([]byte, error) {
	return loader(ctx)
}

// Put drops the value.
func (n *Noop) Put(context.Context, string, []byte) error { return nil }

// Evict does nothing.
func (n *Noop) Evict(context.Context, string) error { return nil }

// Clear does nothing.
func (n *Noop) Clear(context.Context) error { return nil }
