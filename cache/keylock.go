package cache

import "sync"

// KeyLock is a table of per-key mutexes. It gives a loader exclusive
// ownership of a single cache key without serializing loads for unrelated
// keys. An entry exists only while at least one goroutine holds or waits for
// the key, so the table is bounded by the number of in-flight loads, not by
// the number of keys ever seen.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*keyMutex
}

type keyMutex struct {
	mu sync.Mutex
	// waiters counts holders plus blocked acquirers. Guarded by KeyLock.mu.
	waiters int
}

// NewKeyLock creates an empty lock table.
func NewKeyLock() *KeyLock {
	return &KeyLock{locks: make(map[string]*keyMutex)}
}

// Acquire blocks until the caller owns the mutex for key and returns the
// release function. Acquisition cannot fail. Release removes the table entry
// when no other goroutine waits on it; the removal compares the exact mutex
// instance so a racing goroutine that re-inserted a fresh mutex for the same
// key is never evicted.
func (kl *KeyLock) Acquire(key string) (release func()) {
	kl.mu.Lock()
	km, ok := kl.locks[key]
	if !ok {
		km = &keyMutex{}
		kl.locks[key] = km
	}
	km.waiters++
	kl.mu.Unlock()

	km.mu.Lock()

	return func() {
		km.mu.Unlock()
		kl.mu.Lock()
		km.waiters--
		if km.waiters == 0 && kl.locks[key] == km {
			delete(kl.locks, key)
		}
		kl.mu.Unlock()
	}
}

// Len reports the number of keys currently in the table.
func (kl *KeyLock) Len() int {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	return len(kl.locks)
}
