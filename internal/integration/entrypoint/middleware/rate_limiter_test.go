package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newLimitedRouter(limiter *RateLimiter, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID != uuid.Nil {
			c.Set(string(UserIDKey), userID)
		}
		c.Next()
	})
	router.Use(limiter.Middleware())
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func doPing(router *gin.Engine) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)
	return w.Code
}

func TestMemoryStore_Allow(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := store.Allow(ctx, "k", 3, time.Minute)
		if err != nil || !allowed {
			t.Fatalf("request %d: expected allowed, got %v (err %v)", i+1, allowed, err)
		}
	}

	if allowed, _ := store.Allow(ctx, "k", 3, time.Minute); allowed {
		t.Error("expected fourth request to be rejected")
	}
	if allowed, _ := store.Allow(ctx, "other", 3, time.Minute); !allowed {
		t.Error("expected other key to have its own window")
	}

	now = now.Add(time.Minute + time.Second)
	if allowed, _ := store.Allow(ctx, "k", 3, time.Minute); !allowed {
		t.Error("expected window reset after expiry")
	}

	store.Cleanup()
	if len(store.entries) != 1 {
		t.Errorf("expected only the renewed entry after cleanup, got %d", len(store.entries))
	}
	store.Reset()
	if len(store.entries) != 0 {
		t.Errorf("expected empty store after reset, got %d", len(store.entries))
	}
}

func TestRedisStore_Allow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := store.Allow(ctx, "user:1", 2, time.Minute)
		if err != nil || !allowed {
			t.Fatalf("request %d: expected allowed, got %v (err %v)", i+1, allowed, err)
		}
	}
	allowed, err := store.Allow(ctx, "user:1", 2, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Error("expected third request to be rejected")
	}

	if ttl := mr.TTL(redisKeyPrefix + "user:1"); ttl <= 0 || ttl > time.Minute {
		t.Errorf("expected window ttl within a minute, got %s", ttl)
	}

	mr.FastForward(time.Minute + time.Second)
	if allowed, _ := store.Allow(ctx, "user:1", 2, time.Minute); !allowed {
		t.Error("expected request to be allowed after window expiry")
	}
}

func TestMemoryStore_PrunesOnAllow(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_, _ = store.Allow(ctx, "ip:10.0.0.1", 5, time.Minute)
	_, _ = store.Allow(ctx, "ip:10.0.0.2", 5, time.Minute)

	now = now.Add(2 * time.Minute)
	if allowed, _ := store.Allow(ctx, "ip:10.0.0.3", 5, time.Minute); !allowed {
		t.Fatal("expected new key to be allowed")
	}
	if len(store.entries) != 1 {
		t.Errorf("expected expired entries to be pruned, got %d entries", len(store.entries))
	}
}

func TestRedisStore_WindowAlwaysExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client)
	ctx := context.Background()

	t.Run("first hit sets ttl", func(t *testing.T) {
		if _, err := store.Allow(ctx, "ip:1", 5, time.Minute); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ttl := mr.TTL(redisKeyPrefix + "ip:1"); ttl <= 0 {
			t.Errorf("expected ttl after first hit, got %s", ttl)
		}
	})

	t.Run("counter without ttl is repaired", func(t *testing.T) {
		key := redisKeyPrefix + "ip:2"
		if err := mr.Set(key, "9"); err != nil {
			t.Fatalf("seed counter: %v", err)
		}

		allowed, err := store.Allow(ctx, "ip:2", 5, time.Minute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if allowed {
			t.Error("expected request over the limit to be rejected")
		}
		if ttl := mr.TTL(key); ttl <= 0 || ttl > time.Minute {
			t.Errorf("expected ttl within a minute, got %s", ttl)
		}

		mr.FastForward(time.Minute + time.Second)
		if allowed, _ := store.Allow(ctx, "ip:2", 5, time.Minute); !allowed {
			t.Error("expected request to be allowed once the repaired window expires")
		}
	})
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	if _, err := NewRedisStore(client).Allow(context.Background(), "k", 1, time.Minute); err == nil {
		t.Error("expected error when redis is down")
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	userID := uuid.New()
	router := newLimitedRouter(NewRateLimiterWithConfig(NewMemoryStore(), 2, time.Minute), userID)

	codes := []int{doPing(router), doPing(router), doPing(router)}
	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("request %d: expected status %d, got %d", i+1, want[i], codes[i])
		}
	}
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	router := newLimitedRouter(NewRateLimiterWithConfig(NewRedisStore(client), 1, time.Minute), uuid.New())
	for i := 0; i < 3; i++ {
		if code := doPing(router); code != http.StatusOK {
			t.Fatalf("request %d: expected status 200, got %d", i+1, code)
		}
	}
}
