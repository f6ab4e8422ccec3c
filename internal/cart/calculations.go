package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/glazeworks/window-storefront/internal/storeapi"
	"github.com/shopspring/decimal"
)

// Calculation is the last successful pricing result for a cart: the full
// configuration plus cost and breakdown. Adding to the cart replays it.
type Calculation struct {
	Config       storeapi.CalculationRequest `json:"config"`
	Cost         decimal.Decimal             `json:"cost"`
	Breakdown    json.RawMessage             `json:"breakdown,omitempty"`
	CalculatedAt time.Time                   `json:"calculatedAt"`
}

// Ready reports whether the calculation can back an add.
func (c Calculation) Ready() bool {
	return !c.Cost.IsZero()
}

// AddItemRequest builds the upstream add payload.
func (c Calculation) AddItemRequest() storeapi.AddItemRequest {
	breakdown := c.Breakdown
	if len(breakdown) == 0 {
		breakdown = json.RawMessage(`{}`)
	}
	return storeapi.AddItemRequest{
		CalculationRequest: c.Config,
		Cost:               json.Number(c.Cost.String()),
		Breakdown:          breakdown,
	}
}

// CalculationStore keeps the last calculation of each cart identity.
type CalculationStore interface {
	Save(ctx context.Context, cartID string, calc Calculation) error
	Load(ctx context.Context, cartID string) (Calculation, bool, error)
}

type memoryEntry struct {
	calc      Calculation
	expiresAt time.Time
}

// MemoryCalculations is a process-local CalculationStore.
type MemoryCalculations struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryCalculations builds a store whose entries expire after ttl. A
// zero ttl keeps entries until overwritten.
func NewMemoryCalculations(ttl time.Duration) *MemoryCalculations {
	return &MemoryCalculations{
		ttl:     ttl,
		now:     time.Now,
		entries: map[string]memoryEntry{},
	}
}

func (m *MemoryCalculations) Save(_ context.Context, cartID string, calc Calculation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := memoryEntry{calc: calc}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}
	m.entries[cartID] = entry
	return nil
}

func (m *MemoryCalculations) Load(_ context.Context, cartID string) (Calculation, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[cartID]
	if !ok {
		return Calculation{}, false, nil
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		delete(m.entries, cartID)
		return Calculation{}, false, nil
	}
	return entry.calc, true, nil
}

// RedisBackend is the subset of the redis client used for calculations.
type RedisBackend interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	CalculationKey(cartID string) string
}

// RedisCalculations stores calculations as JSON under a per-cart key.
type RedisCalculations struct {
	backend RedisBackend
	ttl     time.Duration
	isMiss  func(error) bool
}

// NewRedisCalculations wires a store over redis. isMiss recognises the
// backend's missing-key error.
func NewRedisCalculations(backend RedisBackend, ttl time.Duration, isMiss func(error) bool) *RedisCalculations {
	if isMiss == nil {
		isMiss = func(error) bool { return false }
	}
	return &RedisCalculations{backend: backend, ttl: ttl, isMiss: isMiss}
}

func (r *RedisCalculations) Save(ctx context.Context, cartID string, calc Calculation) error {
	raw, err := json.Marshal(calc)
	if err != nil {
		return fmt.Errorf("marshal calculation: %w", err)
	}
	if err := r.backend.Set(ctx, r.backend.CalculationKey(cartID), raw, r.ttl); err != nil {
		return fmt.Errorf("store calculation: %w", err)
	}
	return nil
}

func (r *RedisCalculations) Load(ctx context.Context, cartID string) (Calculation, bool, error) {
	raw, err := r.backend.Get(ctx, r.backend.CalculationKey(cartID))
	if err != nil {
		if r.isMiss(err) {
			return Calculation{}, false, nil
		}
		return Calculation{}, false, fmt.Errorf("load calculation: %w", err)
	}
	var calc Calculation
	if err := json.Unmarshal([]byte(raw), &calc); err != nil {
		return Calculation{}, false, fmt.Errorf("decode calculation: %w", err)
	}
	return calc, true, nil
}
