package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redisrepo "github.com/talelapse/a-board-view/internal/repo/redis"
)

func newMiniredisLimiter(t *testing.T, limit int) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewLimiter(redisrepo.NewRateRepo(client), limit, time.Minute, nil), mr
}

func TestAllowWithinLimit(t *testing.T) {
	limiter, _ := newMiniredisLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, _, err := limiter.Allow(ctx, "user:1")
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !ok {
			t.Fatalf("hit %d denied within limit", i+1)
		}
	}

	ok, retry, err := limiter.Allow(ctx, "user:1")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if ok {
		t.Fatal("fourth hit allowed past limit of 3")
	}
	if retry <= 0 {
		t.Errorf("retry-after = %v, want positive", retry)
	}
}

func TestAllowSeparateKeys(t *testing.T) {
	limiter, _ := newMiniredisLimiter(t, 1)
	ctx := context.Background()

	if ok, _, _ := limiter.Allow(ctx, "user:1"); !ok {
		t.Fatal("first key denied")
	}
	if ok, _, _ := limiter.Allow(ctx, "user:2"); !ok {
		t.Fatal("second key denied; windows must be per key")
	}
}

func TestAllowWindowResets(t *testing.T) {
	limiter, mr := newMiniredisLimiter(t, 1)
	ctx := context.Background()

	if ok, _, _ := limiter.Allow(ctx, "user:1"); !ok {
		t.Fatal("first hit denied")
	}
	if ok, _, _ := limiter.Allow(ctx, "user:1"); ok {
		t.Fatal("second hit allowed past limit of 1")
	}

	mr.FastForward(2 * time.Minute)

	if ok, _, _ := limiter.Allow(ctx, "user:1"); !ok {
		t.Fatal("hit denied after window expiry")
	}
}

func TestAllowFailsOpenWithoutBackend(t *testing.T) {
	limiter := NewLimiter(nil, 1, time.Minute, nil)

	for i := 0; i < 5; i++ {
		ok, _, err := limiter.Allow(context.Background(), "user:1")
		if err != nil || !ok {
			t.Fatalf("Allow = (%v, %v), want open", ok, err)
		}
	}
}
