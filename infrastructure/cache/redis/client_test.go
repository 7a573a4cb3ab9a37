package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"smart-reader-api/pkg/config"
)

// Integration tests run against a real Redis when REDIS_TEST_ADDR is set

func testCache(t *testing.T) *RedisCache {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("Skipping Redis integration tests - set REDIS_TEST_ADDR to run")
	}

	cache, err := NewRedisCache(config.RedisConfig{Address: addr})
	if err != nil {
		t.Fatalf("NewRedisCache returned error: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestNewRedisCache_InvalidAddress(t *testing.T) {
	cache, err := NewRedisCache(config.RedisConfig{Address: ""})

	if err == nil {
		t.Error("NewRedisCache should return error for empty address")
	}
	if cache != nil {
		t.Error("NewRedisCache should return nil cache for invalid config")
	}
}

func TestPrefixed(t *testing.T) {
	if got := prefixed("reader:https://example.com"); got != "smart-reader:reader:https://example.com" {
		t.Errorf("prefixed returned %q", got)
	}
}

func TestRedisCache_SetGetDelete(t *testing.T) {
	cache := testCache(t)
	ctx := context.Background()
	key := "test:" + time.Now().Format(time.RFC3339Nano)

	if err := cache.Set(ctx, key, []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	got, err := cache.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(got) != "value" {
		t.Errorf("Get returned %q, want %q", got, "value")
	}

	if err := cache.Delete(ctx, key); err != nil {
		t.Errorf("Delete returned error: %v", err)
	}
	if _, err := cache.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after Delete error = %v, want ErrCacheMiss", err)
	}
}

func TestRedisCache_Expiry(t *testing.T) {
	cache := testCache(t)
	ctx := context.Background()
	key := "expiry:" + time.Now().Format(time.RFC3339Nano)

	if err := cache.Set(ctx, key, []byte("value"), 50*time.Millisecond); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	if _, err := cache.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after expiry error = %v, want ErrCacheMiss", err)
	}
}
