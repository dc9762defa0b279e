package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_PutAndGet(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	s := NewRedisStore(client, "labels", "https://app.rapidpro.io/api/v2", time.Minute)

	s.Put(ctx, map[string]string{"l1": "Spam"})

	var got map[string]string
	if !s.Get(ctx, &got) || got["l1"] != "Spam" {
		t.Fatalf("expected cache hit, got %v", got)
	}
	if ttl := mr.TTL(s.key); ttl != time.Minute {
		t.Fatalf("expected redis TTL of 1m, got %v", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if s.Get(ctx, &got) {
		t.Fatal("expected miss after redis expiry")
	}
}

func TestRedisStore_Clear(t *testing.T) {
	ctx := context.Background()
	_, client := newRedis(t)
	s := NewRedisStore(client, "labels", "https://app.rapidpro.io/api/v2", time.Minute)

	s.Put(ctx, []string{"a"})
	s.Clear(ctx)

	var got []string
	if s.Get(ctx, &got) {
		t.Fatal("expected miss after clear")
	}
}

func TestClearAllRedis_KeepsForeignKeys(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	NewRedisStore(client, "groups", "https://a.example.com", time.Minute).Put(ctx, []string{"a"})
	NewRedisStore(client, "labels", "https://a.example.com", time.Minute).Put(ctx, []string{"b"})
	if err := mr.Set("other:key", "keep"); err != nil {
		t.Fatal(err)
	}

	if err := ClearAllRedis(ctx, client); err != nil {
		t.Fatal(err)
	}
	if keys := mr.Keys(); len(keys) != 1 || keys[0] != "other:key" {
		t.Fatalf("unexpected remaining keys: %v", keys)
	}
}

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := Open(Config{Backend: BackendRedis, RedisURL: "redis://" + mr.Addr() + "/0"})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	c.Store("groups", "https://app.rapidpro.io/api/v2").Put(ctx, []string{"a"})
	if len(mr.Keys()) != 1 {
		t.Fatalf("expected one key, got %v", mr.Keys())
	}
	if err := c.ClearAll(ctx); err != nil {
		t.Fatal(err)
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("expected no keys, got %v", mr.Keys())
	}
}
