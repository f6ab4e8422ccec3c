package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/glazeworks/window-storefront/internal/sharetoken"
	"github.com/glazeworks/window-storefront/pkg/enums"
	"github.com/glazeworks/window-storefront/pkg/logger"
	"github.com/google/uuid"
)

const (
	cartPrefix     = "cart"
	sessionPrefix  = "session"
	fallbackPrefix = "fallback"
	suffixLength   = 9
)

// Resolver derives the cart identity for a page load.
type Resolver struct {
	logg   *logger.Logger
	now    func() time.Time
	suffix func() string
}

// Option customises a Resolver.
type Option func(*Resolver)

// WithClock overrides the time source used in minted identifiers.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// WithSuffix overrides the random suffix source used in minted identifiers.
func WithSuffix(suffix func() string) Option {
	return func(r *Resolver) {
		if suffix != nil {
			r.suffix = suffix
		}
	}
}

func NewResolver(logg *logger.Logger, opts ...Option) *Resolver {
	if logg == nil {
		logg = logger.Nop()
	}
	r := &Resolver{
		logg:   logg,
		now:    time.Now,
		suffix: randomSuffix,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns exactly one identity. A decodable share parameter wins;
// otherwise consent picks between the session value and the durable cookie.
// Storage failures degrade to a timestamp-only fallback identity.
func (r *Resolver) Resolve(ctx context.Context, shareParam string, store Storage) Identity {
	if strings.TrimSpace(shareParam) != "" {
		tok, err := sharetoken.Decode(shareParam)
		if err == nil {
			return Identity{ID: tok.CartID, Source: SourceShared, StorageType: tok.StorageType}
		}
		r.logg.Warn(r.logg.WithField(ctx, "error", err.Error()), "identity.share_token.invalid")
	}

	id, err := r.resolveStored(store)
	if err != nil {
		r.logg.Warn(r.logg.WithField(ctx, "error", err.Error()), "identity.fallback")
		return Identity{
			ID:          fmt.Sprintf("%s-%d", fallbackPrefix, r.now().UnixMilli()),
			Source:      SourceFallback,
			StorageType: enums.StorageCookie,
		}
	}
	return id
}

func (r *Resolver) resolveStored(store Storage) (Identity, error) {
	if store == nil {
		return Identity{}, ErrStorageUnavailable
	}

	consent, err := store.Consent()
	if err != nil {
		return Identity{}, err
	}

	if consent == enums.ConsentRejected {
		return r.resolveSession(store)
	}

	existing, err := store.CartCookie()
	if err != nil {
		return Identity{}, err
	}
	if existing != "" {
		return Identity{ID: existing, Source: SourceCookie, StorageType: enums.StorageCookie}, nil
	}

	minted := r.mint(cartPrefix)
	if err := store.SetCartCookie(minted); err != nil {
		return Identity{}, err
	}
	return Identity{ID: minted, Source: SourceCookie, StorageType: enums.StorageCookie}, nil
}

func (r *Resolver) resolveSession(store Storage) (Identity, error) {
	// a cart cookie left over from before the rejection is dropped
	stale, err := store.CartCookie()
	if err != nil {
		return Identity{}, err
	}
	if stale != "" {
		if err := store.ClearCartCookie(); err != nil {
			return Identity{}, err
		}
	}

	existing, err := store.SessionCart()
	if err != nil {
		return Identity{}, err
	}
	if existing == "" {
		existing = r.mint(sessionPrefix)
		if err := store.SetSessionCart(existing); err != nil {
			return Identity{}, err
		}
	}
	return Identity{ID: existing, Source: SourceSession, StorageType: enums.StorageCookie}, nil
}

func (r *Resolver) mint(prefix string) string {
	return fmt.Sprintf("%s-%d-%s", prefix, r.now().UnixMilli(), r.suffix())
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixLength]
}
