package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glazeworks/window-storefront/internal/storeapi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestMemoryCalculationsExpire(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	store := NewMemoryCalculations(time.Hour)
	store.now = func() time.Time { return now }

	calc := Calculation{Cost: decimal.NewFromInt(100)}
	require.NoError(t, store.Save(context.Background(), "cart-1", calc))

	got, ok, err := store.Load(context.Background(), "cart-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, got.Cost.Equal(calc.Cost))

	now = now.Add(time.Hour)
	_, ok, err = store.Load(context.Background(), "cart-1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryCalculationsOverwrite(t *testing.T) {
	t.Parallel()

	store := NewMemoryCalculations(0)
	require.NoError(t, store.Save(context.Background(), "cart-1", Calculation{Cost: decimal.NewFromInt(1)}))
	require.NoError(t, store.Save(context.Background(), "cart-1", Calculation{Cost: decimal.NewFromInt(2)}))

	got, ok, err := store.Load(context.Background(), "cart-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2", got.Cost.String())
}

var errMiss = errors.New("redis: nil")

type fakeRedis struct {
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttls[key] = ttl
	return nil
}

func (f *fakeRedis) Get(_ context.Context, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.data[key]
	if !ok {
		return "", errMiss
	}
	return v, nil
}

func (f *fakeRedis) CalculationKey(cartID string) string {
	return "sf:calculation:" + cartID
}

func TestRedisCalculationsRoundTrip(t *testing.T) {
	t.Parallel()

	backend := &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
	store := NewRedisCalculations(backend, 24*time.Hour, func(err error) bool { return errors.Is(err, errMiss) })

	_, ok, err := store.Load(context.Background(), "cart-1")
	require.NoError(t, err)
	require.False(t, ok)

	calc := Calculation{
		Config: storeapi.CalculationRequest{Height: 10, Width: 20, GlassType: "clear"},
		Cost:   decimal.RequireFromString("99.5"),
	}
	require.NoError(t, store.Save(context.Background(), "cart-1", calc))
	require.Equal(t, 24*time.Hour, backend.ttls["sf:calculation:cart-1"])

	got, ok, err := store.Load(context.Background(), "cart-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, calc.Config, got.Config)
	require.True(t, got.Cost.Equal(calc.Cost))
}

func TestRedisCalculationsSurfaceErrors(t *testing.T) {
	t.Parallel()

	backend := &fakeRedis{data: map[string]string{"sf:calculation:bad": "{"}, ttls: map[string]time.Duration{}}
	store := NewRedisCalculations(backend, 0, nil)

	_, _, err := store.Load(context.Background(), "bad")
	require.Error(t, err)

	backend.err = errors.New("connection reset")
	require.Error(t, store.Save(context.Background(), "cart-1", Calculation{}))
	_, _, err = store.Load(context.Background(), "cart-1")
	require.Error(t, err)
}
