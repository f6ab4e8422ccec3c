package controllers

import (
	"net/http"

	"github.com/glazeworks/window-storefront/api/responses"
	"github.com/glazeworks/window-storefront/api/validators"
	"github.com/glazeworks/window-storefront/internal/cart"
	"github.com/glazeworks/window-storefront/internal/quote"
	"github.com/glazeworks/window-storefront/pkg/logger"
)

type exportRequest struct {
	// Confirmed answers the promotion prompt. Only consulted for session carts.
	Confirmed bool `json:"confirmed"`
}

// ExportQuote builds a shareable link for the visitor's cart. Session carts
// need an explicit confirmation; without it the prompt comes back as a 409.
func ExportQuote(client *cart.Client, exporter *quote.Exporter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := boundCart(r, client)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req exportRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		q, err := exporter.Export(r.Context(), quote.Input{
			Cart:     c,
			Identity: c.Identity(),
			Origin:   origin(r),
			Confirm:  func(string) bool { return req.Confirmed },
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, q)
	}
}
