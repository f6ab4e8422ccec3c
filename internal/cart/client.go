package cart

import (
	"context"
	"strings"

	"github.com/glazeworks/window-storefront/internal/identity"
	"github.com/glazeworks/window-storefront/internal/storeapi"
	pkgerrors "github.com/glazeworks/window-storefront/pkg/errors"
	"github.com/glazeworks/window-storefront/pkg/logger"
)

// MsgCalculateFirst is shown when an add is attempted without a calculation.
const MsgCalculateFirst = "Please calculate cost first before adding to cart"

// API is the subset of the pricing/cart API used by carts.
type API interface {
	GetCart(ctx context.Context, cartID string) (storeapi.CartSnapshot, error)
	AddItem(ctx context.Context, cartID string, item storeapi.AddItemRequest) (storeapi.CartSnapshot, error)
	RemoveItem(ctx context.Context, cartID, itemID string) (storeapi.CartSnapshot, error)
	UpdateQuantity(ctx context.Context, cartID, itemID string, quantity int) (storeapi.CartSnapshot, error)
	ClearCart(ctx context.Context, cartID string) (storeapi.CartSnapshot, error)
	SaveSessionCart(ctx context.Context, sessionCartID string) (string, error)
}

// Client is built once at startup and shared by every request.
type Client struct {
	api          API
	calculations CalculationStore
	logg         *logger.Logger
}

func NewClient(api API, calculations CalculationStore, logg *logger.Logger) (*Client, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart api is required")
	}
	if calculations == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "calculation store is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Client{api: api, calculations: calculations, logg: logg}, nil
}

// Bind scopes the client to one resolved identity.
func (c *Client) Bind(id identity.Identity) *Cart {
	return &Cart{client: c, id: id}
}

// Calculations exposes the store the calculator writes into.
func (c *Client) Calculations() CalculationStore {
	return c.calculations
}

// Cart is a client bound to one cart identity. Every mutation is a single
// round trip; the returned snapshot replaces whatever the caller showed before.
type Cart struct {
	client *Client
	id     identity.Identity
}

func (c *Cart) ID() string {
	return c.id.ID
}

func (c *Cart) Identity() identity.Identity {
	return c.id
}

func (c *Cart) Fetch(ctx context.Context) (storeapi.CartSnapshot, error) {
	snap, err := c.client.api.GetCart(ctx, c.id.ID)
	return snap, c.logFailure(ctx, storeapi.OpCartFetch, err)
}

// Add replays the identity's last calculation as a new cart line. Without
// one no request is made.
func (c *Cart) Add(ctx context.Context) (storeapi.CartSnapshot, error) {
	calc, ok, err := c.client.calculations.Load(ctx, c.id.ID)
	if err != nil {
		return storeapi.CartSnapshot{}, c.logFailure(ctx, storeapi.OpCartAdd,
			pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading last calculation"))
	}
	if !ok || !calc.Ready() {
		return storeapi.CartSnapshot{}, c.logFailure(ctx, storeapi.OpCartAdd,
			pkgerrors.New(pkgerrors.CodeStateConflict, MsgCalculateFirst))
	}

	snap, err := c.client.api.AddItem(ctx, c.id.ID, calc.AddItemRequest())
	return snap, c.logFailure(ctx, storeapi.OpCartAdd, err)
}

func (c *Cart) Remove(ctx context.Context, itemID string) (storeapi.CartSnapshot, error) {
	if err := requireItemID(itemID); err != nil {
		return storeapi.CartSnapshot{}, err
	}
	snap, err := c.client.api.RemoveItem(ctx, c.id.ID, itemID)
	return snap, c.logFailure(ctx, storeapi.OpCartRemove, err)
}

// SetQuantity sends quantity as given. Zero and negative values are not
// clamped.
func (c *Cart) SetQuantity(ctx context.Context, itemID string, quantity int) (storeapi.CartSnapshot, error) {
	if err := requireItemID(itemID); err != nil {
		return storeapi.CartSnapshot{}, err
	}
	snap, err := c.client.api.UpdateQuantity(ctx, c.id.ID, itemID, quantity)
	return snap, c.logFailure(ctx, storeapi.OpCartQuantity, err)
}

func (c *Cart) Clear(ctx context.Context) (storeapi.CartSnapshot, error) {
	snap, err := c.client.api.ClearCart(ctx, c.id.ID)
	return snap, c.logFailure(ctx, storeapi.OpCartClear, err)
}

// Promote saves a session-scoped cart server-side and returns its durable id.
func (c *Cart) Promote(ctx context.Context) (string, error) {
	id, err := c.client.api.SaveSessionCart(ctx, c.id.ID)
	if err == nil && strings.TrimSpace(id) == "" {
		err = pkgerrors.New(pkgerrors.CodeMalformed, "promotion returned no cart id")
	}
	if err != nil {
		return "", c.logFailure(ctx, storeapi.OpCartPromote, err)
	}
	return id, nil
}

func (c *Cart) logFailure(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	logg := c.client.logg
	fields := pkgerrors.Dump(err).Fields()
	fields["operation"] = op
	fields["cart_id"] = c.id.ID
	fields["identity_source"] = string(c.id.Source)
	ctx = logg.WithFields(ctx, fields)

	switch pkgerrors.CodeOf(err) {
	case pkgerrors.CodeStateConflict, pkgerrors.CodeRejected, pkgerrors.CodeValidation:
		logg.Warn(ctx, op+".refused")
	default:
		logg.Error(ctx, op+".failed", err)
	}
	return err
}

func requireItemID(itemID string) error {
	if strings.TrimSpace(itemID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	return nil
}
