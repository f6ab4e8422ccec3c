package middleware

import (
	"context"

	"github.com/glazeworks/window-storefront/internal/identity"
)

type contextKey string

const (
	ctxIdentity contextKey = "cart_identity"
	ctxStore    contextKey = "identity_store"
)

// IdentityFromContext returns the identity resolved for the request.
func IdentityFromContext(ctx context.Context) (identity.Identity, bool) {
	if ctx == nil {
		return identity.Identity{}, false
	}
	id, ok := ctx.Value(ctxIdentity).(identity.Identity)
	return id, ok
}

// StoreFromContext returns the visitor storage bound to the request.
func StoreFromContext(ctx context.Context) identity.Storage {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxStore).(identity.Storage); ok {
		return v
	}
	return nil
}

// WithIdentity injects the resolved identity into the context.
func WithIdentity(ctx context.Context, id identity.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentity, id)
}

// WithStore injects the visitor storage into the context for downstream handlers.
func WithStore(ctx context.Context, store identity.Storage) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxStore, store)
}
