package cache

import (
	"math/rand"
	"time"
)

// JitterExpiry computes randomized TTLs so that entries created together do
// not expire together. Synchronized population (warmup, a mass invalidation)
// would otherwise produce synchronized expiry and a correlated stampede back
// to the database.
type JitterExpiry struct {
	base   time.Duration
	jitter time.Duration
}

// NewJitterExpiry returns a policy yielding TTLs in [base, base+jitter].
// A zero jitter reduces to a fixed TTL.
func NewJitterExpiry(base, jitter time.Duration) JitterExpiry {
	return JitterExpiry{base: base, jitter: jitter}
}

// ExpireAfterCreate returns the TTL for a freshly created entry.
func (j JitterExpiry) ExpireAfterCreate() time.Duration {
	return j.base + j.randomJitter()
}

// ExpireAfterUpdate returns the TTL after an entry is overwritten.
func (j JitterExpiry) ExpireAfterUpdate() time.Duration {
	return j.base + j.randomJitter()
}

// ExpireAfterRead returns the remaining duration unchanged: reads never
// extend a TTL, so a hot key cannot stay cached (and stale) forever.
func (j JitterExpiry) ExpireAfterRead(remaining time.Duration) time.Duration {
	return remaining
}

func (j JitterExpiry) randomJitter() time.Duration {
	if j.jitter <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(j.jitter) + 1))
}
