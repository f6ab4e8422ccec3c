package middleware

import (
	"net/http"

	"github.com/glazeworks/window-storefront/internal/identity"
	"github.com/glazeworks/window-storefront/internal/sharetoken"
	"github.com/glazeworks/window-storefront/pkg/logger"
)

// ShareHeader carries a share token on follow-up calls from a shared page.
const ShareHeader = "X-Cart-Share"

// Identity resolves the cart identity once per request from the share
// token, consent and cookies, and stores it in the request context.
func Identity(resolver *identity.Resolver, cookies identity.CookieOptions, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			share := r.URL.Query().Get(sharetoken.QueryParam)
			if share == "" {
				share = r.Header.Get(ShareHeader)
			}

			store := identity.NewCookieStore(w, r, cookies)
			ctx := r.Context()
			id := resolver.Resolve(ctx, share, store)

			ctx = WithIdentity(ctx, id)
			ctx = WithStore(ctx, store)
			if logg != nil {
				ctx = logg.WithFields(logg.WithCartID(ctx, id.ID), map[string]any{"identity_source": string(id.Source)})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
