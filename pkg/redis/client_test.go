package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glazeworks/window-storefront/pkg/config"
	"github.com/redis/go-redis/v9"
)

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	key := client.CalculationKey("cart-1")
	if err := client.Set(ctx, key, `{"cost":1200}`, time.Hour); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if mock.ttls[key] != time.Hour {
		t.Fatalf("expected ttl to be forwarded, got %v", mock.ttls[key])
	}
	got, err := client.Get(ctx, key)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != `{"cost":1200}` {
		t.Fatalf("unexpected value %q", got)
	}

	if err := client.Del(ctx, key); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, err := client.Get(ctx, key); !IsNil(err) {
		t.Fatalf("expected redis.Nil after delete, got %v", err)
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	client := &Client{}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatalf("expected error from empty client")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close on empty client should be a no-op, got %v", err)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.CalculationKey("cart-1700000000000-abc"); got != "sf:calculation:cart-1700000000000-abc" {
		t.Fatalf("unexpected calculation key %s", got)
	}
	if got := client.CalculationKey(" "); got != "sf:calculation" {
		t.Fatalf("blank parts should be skipped, got %s", got)
	}
	if got := client.IdempotencyKey("cart-1|POST|/cart/items", "k1"); got != "sf:idempotency:cart-1|POST|/cart/items:k1" {
		t.Fatalf("unexpected idempotency key %s", got)
	}
	if got := client.RateLimitKey("calculate:10.0.0.1"); got != "sf:ratelimit:calculate:10.0.0.1" {
		t.Fatalf("unexpected rate limit key %s", got)
	}
	if got := client.LockKey("maintenance", "prod"); got != "sf:lock:maintenance:prod" {
		t.Fatalf("unexpected lock key %s", got)
	}
}

func TestSetNXOnlyWritesOnce(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newMockCmdable()}

	ok, err := client.SetNX(ctx, "k", "first", time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected first SetNX to win, got ok=%v err=%v", ok, err)
	}
	ok, err = client.SetNX(ctx, "k", "second", time.Minute)
	if err != nil || ok {
		t.Fatalf("expected second SetNX to lose, got ok=%v err=%v", ok, err)
	}
	if got, _ := client.Get(ctx, "k"); got != "first" {
		t.Fatalf("unexpected value %q", got)
	}
}

func TestIncrWithTTLSetsExpiryOnFirstHit(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	for i := int64(1); i <= 3; i++ {
		count, err := client.IncrWithTTL(ctx, "rl", time.Minute)
		if err != nil {
			t.Fatalf("incr failed: %v", err)
		}
		if count != i {
			t.Fatalf("expected count %d got %d", i, count)
		}
	}
	if mock.ttls["rl"] != time.Minute {
		t.Fatalf("expected ttl to be set, got %v", mock.ttls["rl"])
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatalf("expected error without url or address")
	}
	opts, err := optionsFromConfig(config.RedisConfig{Address: "localhost:6379", DB: 2, PoolSize: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.DB != 2 || opts.PoolSize != 7 {
		t.Fatalf("unexpected options %+v", opts)
	}
	parsed, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6380/3", PoolSize: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Addr != "localhost:6380" || parsed.DB != 3 || parsed.PoolSize != 4 {
		t.Fatalf("unexpected parsed options %+v", parsed)
	}
}

type mockCmdable struct {
	data     map[string]string
	ttls     map[string]time.Duration
	counters map[string]int64
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data:     make(map[string]string),
		ttls:     make(map[string]time.Duration),
		counters: make(map[string]int64),
	}
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, ok := m.data[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.counters[key]++
	return redis.NewIntResult(m.counters[key], nil)
}

func (m *mockCmdable) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
