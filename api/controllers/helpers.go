package controllers

import (
	"context"
	"html/template"
	"net/http"
	"strings"

	"github.com/glazeworks/window-storefront/api/middleware"
	"github.com/glazeworks/window-storefront/internal/cart"
	"github.com/glazeworks/window-storefront/internal/identity"
	"github.com/glazeworks/window-storefront/internal/render"
	"github.com/glazeworks/window-storefront/internal/storeapi"
	pkgerrors "github.com/glazeworks/window-storefront/pkg/errors"
)

// CartPayload is returned by every cart operation: the projected view and
// the rendered fragment that replaces the previous one.
type CartPayload struct {
	View render.CartView `json:"view"`
	HTML template.HTML   `json:"html"`
}

func requestIdentity(r *http.Request) (identity.Identity, error) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok || id.ID == "" {
		return identity.Identity{}, pkgerrors.New(pkgerrors.CodeInternal, "cart identity missing from request")
	}
	return id, nil
}

func requestStore(r *http.Request) (identity.Storage, error) {
	store := middleware.StoreFromContext(r.Context())
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "identity storage missing from request")
	}
	return store, nil
}

func boundCart(r *http.Request, client *cart.Client) (*cart.Cart, error) {
	id, err := requestIdentity(r)
	if err != nil {
		return nil, err
	}
	return client.Bind(id), nil
}

func cartPayload(snap storeapi.CartSnapshot) (CartPayload, error) {
	view := render.Project(snap)
	html, err := render.HTML(view)
	if err != nil {
		return CartPayload{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rendering cart")
	}
	return CartPayload{View: view, HTML: html}, nil
}

// origin rebuilds the public origin of the inbound request.
func origin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	// Proxy chains append their own value; the first is the client-facing one.
	forwarded, _, _ := strings.Cut(r.Header.Get("X-Forwarded-Proto"), ",")
	if forwarded = strings.ToLower(strings.TrimSpace(forwarded)); forwarded != "" {
		scheme = forwarded
	}
	return scheme + "://" + r.Host
}

// detached keeps request-scoped values but drops cancellation, for
// fire-and-forget work started by a handler.
func detached(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
