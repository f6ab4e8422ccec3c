package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/glazeworks/window-storefront/api/responses"
	"github.com/glazeworks/window-storefront/internal/cart"
	"github.com/glazeworks/window-storefront/internal/identity"
	"github.com/glazeworks/window-storefront/internal/preview"
	"github.com/glazeworks/window-storefront/internal/render"
	"github.com/glazeworks/window-storefront/internal/sharetoken"
	"github.com/glazeworks/window-storefront/internal/storeapi"
	"github.com/glazeworks/window-storefront/pkg/logger"
)

const (
	defaultPanels    = "2"
	defaultPartition = "noPartition"

	wakeTimeout = 10 * time.Second
)

// HealthProber wakes the pricing backend.
type HealthProber interface {
	Health(ctx context.Context) error
}

// Page renders the storefront with the visitor's cart already projected.
// A cart that cannot be loaded renders as empty.
func Page(client *cart.Client, prober HealthProber, logg *logger.Logger) http.HandlerFunc {
	if logg == nil {
		logg = logger.Nop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		c, err := boundCart(r, client)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		store, err := requestStore(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if prober != nil {
			go wake(detached(ctx), prober, logg)
		}

		snap, err := c.Fetch(ctx)
		if err != nil {
			logg.Warn(logg.WithField(ctx, "error", err.Error()), "page.cart_unavailable")
			snap = storeapi.CartSnapshot{}
		}
		fragment, err := render.HTML(render.Project(snap))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		data := render.PageData{
			ConsentBanner: identity.BannerVisible(store),
			Cart:          fragment,
			Preview:       preview.Lookup(defaultPanels, defaultPartition),
		}
		if c.Identity().Source == identity.SourceShared {
			data.ShareToken = r.URL.Query().Get(sharetoken.QueryParam)
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := render.WritePage(w, data); err != nil {
			logg.Error(ctx, "page.render_failed", err)
		}
	}
}

func wake(ctx context.Context, prober HealthProber, logg *logger.Logger) {
	ctx, cancel := context.WithTimeout(ctx, wakeTimeout)
	defer cancel()
	if err := prober.Health(ctx); err != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "backend.wake_failed")
	}
}
