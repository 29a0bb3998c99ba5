package cache

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func testL2(t *testing.T, name string) (*L2, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewL2(name, rdb, NewJitterExpiry(time.Minute, 0), zap.NewNop()), mr
}

func TestL2_PutGet(t *testing.T) {
	ctx := t.Context()
	l2, mr := testL2(t, "articles:published")

	if _, ok, _ := l2.Get(ctx, "k1"); ok {
		t.Fatal("hit on empty cache")
	}

	if err := l2.Put(ctx, "k1", []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	v, ok, err := l2.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || !bytes.Equal(v, []byte("v1")) {
		t.Fatalf("Get = %q, %v; want v1, true", v, ok)
	}

	// Keys are namespaced in Redis itself.
	if !mr.Exists("articles:published:k1") {
		t.Fatal("stored key is not namespace-prefixed")
	}
}

func TestL2_TTL(t *testing.T) {
	ctx := t.Context()
	l2, mr := testL2(t, "articles:hot")

	if err := l2.Put(ctx, "k1", []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if ttl := mr.TTL("articles:hot:k1"); ttl != time.Minute {
		t.Fatalf("ttl = %v, want %v", ttl, time.Minute)
	}

	mr.FastForward(2 * time.Minute)

	if _, ok, _ := l2.Get(ctx, "k1"); ok {
		t.Fatal("hit after TTL expiry")
	}
}

func TestL2_GetWith_LoadsOnce(t *testing.T) {
	ctx := t.Context()
	l2, _ := testL2(t, "articles:published")

	var calls atomic.Int32
	loader := func(ctx context.Context) ([]byte, error) {
		calls.Add(1)
		return []byte("loaded"), nil
	}

	for range 3 {
		v, err := l2.GetWith(ctx, "k1", loader)
		if err != nil {
			t.Fatalf("GetWith: %v", err)
		}
		if !bytes.Equal(v, []byte("loaded")) {
			t.Fatalf("GetWith = %q, want loaded", v)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("loader ran %d times, want 1", n)
	}
}

func TestL2_Evict(t *testing.T) {
	ctx := t.Context()
	l2, _ := testL2(t, "articles:published")

	if err := l2.Put(ctx, "k1", []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := l2.Evict(ctx, "k1"); err != nil {
		t.Fatalf("Evict: %v", err)
	}
	if _, ok, _ := l2.Get(ctx, "k1"); ok {
		t.Fatal("hit after Evict")
	}
}

func TestL2_Clear_ScopedToNamespace(t *testing.T) {
	ctx := t.Context()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	published := NewL2("articles:published", rdb, NewJitterExpiry(time.Minute, 0), zap.NewNop())
	hot := NewL2("articles:hot", rdb, NewJitterExpiry(time.Minute, 0), zap.NewNop())

	for i := range 5 {
		key := fmt.Sprintf("k%d", i)
		if err := published.Put(ctx, key, []byte("v")); err != nil {
			t.Fatalf("Put published: %v", err)
		}
		if err := hot.Put(ctx, key, []byte("v")); err != nil {
			t.Fatalf("Put hot: %v", err)
		}
	}

	if err := published.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	for i := range 5 {
		key := fmt.Sprintf("k%d", i)
		if _, ok, _ := published.Get(ctx, key); ok {
			t.Fatalf("published %s survived Clear", key)
		}
		if _, ok, _ := hot.Get(ctx, key); !ok {
			t.Fatalf("Clear crossed namespaces: hot %s gone", key)
		}
	}
}

func TestL2_FailsSoftWhenDown(t *testing.T) {
	ctx := t.Context()
	l2, mr := testL2(t, "articles:published")

	if err := l2.Put(ctx, "k1", []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	mr.Close()

	// Every operation degrades to a miss or no-op, never an error.
	if err := l2.Put(ctx, "k2", []byte("v2")); err != nil {
		t.Fatalf("Put with redis down: %v", err)
	}
	if _, ok, err := l2.Get(ctx, "k1"); err != nil || ok {
		t.Fatalf("Get with redis down = hit=%v err=%v; want miss, nil", ok, err)
	}
	if err := l2.Evict(ctx, "k1"); err != nil {
		t.Fatalf("Evict with redis down: %v", err)
	}
	if err := l2.Clear(ctx); err != nil {
		t.Fatalf("Clear with redis down: %v", err)
	}
	if err := l2.Ping(ctx); err == nil {
		t.Fatal("Ping succeeded with redis down")
	}
}
