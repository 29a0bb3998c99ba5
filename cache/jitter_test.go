package cache

import (
	"testing"
	"time"
)

func TestJitterExpiry_Range(t *testing.T) {
	base := 30 * time.Second
	jitter := 10 * time.Second
	j := NewJitterExpiry(base, jitter)

	seen := make(map[time.Duration]bool)
	for range 50 {
		ttl := j.ExpireAfterCreate()
		if ttl < base || ttl > base+jitter {
			t.Fatalf("ttl %v outside [%v, %v]", ttl, base, base+jitter)
		}
		seen[ttl] = true
	}
	if len(seen) == 1 {
		t.Fatal("50 samples with jitter > 0 were all identical")
	}
}

func TestJitterExpiry_ZeroJitterIsFixed(t *testing.T) {
	j := NewJitterExpiry(time.Minute, 0)
	for range 10 {
		if ttl := j.ExpireAfterCreate(); ttl != time.Minute {
			t.Fatalf("ttl = %v, want %v", ttl, time.Minute)
		}
		if ttl := j.ExpireAfterUpdate(); ttl != time.Minute {
			t.Fatalf("update ttl = %v, want %v", ttl, time.Minute)
		}
	}
}

func TestJitterExpiry_ReadNeverExtends(t *testing.T) {
	j := NewJitterExpiry(time.Minute, 10*time.Second)
	remaining := 17 * time.Second
	if got := j.ExpireAfterRead(remaining); got != remaining {
		t.Fatalf("ExpireAfterRead = %v, want unchanged %v", got, remaining)
	}
}
