package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glazeworks/window-storefront/api/responses"
	"github.com/glazeworks/window-storefront/api/validators"
	"github.com/glazeworks/window-storefront/internal/cart"
	"github.com/glazeworks/window-storefront/internal/render"
	"github.com/glazeworks/window-storefront/internal/storeapi"
	pkgerrors "github.com/glazeworks/window-storefront/pkg/errors"
	"github.com/glazeworks/window-storefront/pkg/logger"
)

const (
	msgAddFailed    = "Failed to add item to cart. Please try again."
	msgLoadFailed   = "Could not load your cart. Please try again."
	msgUpdateFailed = "Could not update your cart. Please try again."
	itemIDParam     = "itemId"
)

type quantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type actionRequest struct {
	Action   string `json:"action" validate:"required,oneof=increment decrement remove"`
	ItemID   string `json:"itemId" validate:"required"`
	Quantity int    `json:"quantity"`
}

type cartOp func(ctx context.Context, c *cart.Cart, r *http.Request) (storeapi.CartSnapshot, error)

// cartHandler binds the request identity, runs op and writes the fresh
// snapshot. Failures keep their code; failMsg replaces transport detail.
func cartHandler(client *cart.Client, logg *logger.Logger, status int, failMsg string, op cartOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := boundCart(r, client)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := op(r.Context(), c, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, publicCartError(err, failMsg))
			return
		}

		payload, err := cartPayload(snap)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, status, payload)
	}
}

func publicCartError(err error, failMsg string) error {
	switch code := pkgerrors.CodeOf(err); code {
	case pkgerrors.CodeDependency, pkgerrors.CodeUpstream, pkgerrors.CodeMalformed:
		return pkgerrors.Wrap(code, err, failMsg)
	default:
		return err
	}
}

func CartFetch(client *cart.Client, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(client, logg, http.StatusOK, msgLoadFailed,
		func(ctx context.Context, c *cart.Cart, _ *http.Request) (storeapi.CartSnapshot, error) {
			return c.Fetch(ctx)
		})
}

// CartAdd adds the identity's last calculation to the cart.
func CartAdd(client *cart.Client, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(client, logg, http.StatusCreated, msgAddFailed,
		func(ctx context.Context, c *cart.Cart, _ *http.Request) (storeapi.CartSnapshot, error) {
			return c.Add(ctx)
		})
}

func CartRemove(client *cart.Client, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(client, logg, http.StatusOK, msgUpdateFailed,
		func(ctx context.Context, c *cart.Cart, r *http.Request) (storeapi.CartSnapshot, error) {
			return c.Remove(ctx, chi.URLParam(r, itemIDParam))
		})
}

func CartSetQuantity(client *cart.Client, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(client, logg, http.StatusOK, msgUpdateFailed,
		func(ctx context.Context, c *cart.Cart, r *http.Request) (storeapi.CartSnapshot, error) {
			var req quantityRequest
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				return storeapi.CartSnapshot{}, err
			}
			return c.SetQuantity(ctx, chi.URLParam(r, itemIDParam), *req.Quantity)
		})
}

func CartClear(client *cart.Client, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(client, logg, http.StatusOK, msgUpdateFailed,
		func(ctx context.Context, c *cart.Cart, _ *http.Request) (storeapi.CartSnapshot, error) {
			return c.Clear(ctx)
		})
}

// CartAction applies an affordance from a rendered cart fragment.
func CartAction(client *cart.Client, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(client, logg, http.StatusOK, msgUpdateFailed,
		func(ctx context.Context, c *cart.Cart, r *http.Request) (storeapi.CartSnapshot, error) {
			var req actionRequest
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				return storeapi.CartSnapshot{}, err
			}
			action := render.ItemAction{
				Kind:     render.ActionKind(req.Action),
				ItemID:   req.ItemID,
				Quantity: req.Quantity,
			}
			return action.Apply(ctx, c)
		})
}
