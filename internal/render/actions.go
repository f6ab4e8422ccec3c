package render

import (
	"context"
	"strings"

	"github.com/glazeworks/window-storefront/internal/storeapi"
	pkgerrors "github.com/glazeworks/window-storefront/pkg/errors"
)

type ActionKind string

const (
	ActionIncrement ActionKind = "increment"
	ActionDecrement ActionKind = "decrement"
	ActionRemove    ActionKind = "remove"
)

// ItemAction is an affordance rendered next to a cart line. Quantity is the
// absolute value to send, already adjusted by one for increment/decrement.
type ItemAction struct {
	Kind     ActionKind `json:"action"`
	ItemID   string     `json:"itemId"`
	Quantity int        `json:"quantity"`
}

// CartOperator is the cart surface an action can drive.
type CartOperator interface {
	Remove(ctx context.Context, itemID string) (storeapi.CartSnapshot, error)
	SetQuantity(ctx context.Context, itemID string, quantity int) (storeapi.CartSnapshot, error)
}

func (a ItemAction) Validate() error {
	if strings.TrimSpace(a.ItemID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	switch a.Kind {
	case ActionIncrement, ActionDecrement, ActionRemove:
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown cart action").
			WithDetails(map[string]any{"action": string(a.Kind)})
	}
}

// Apply sends the action to the cart. A decrement from one goes out as zero;
// the server owns deletion.
func (a ItemAction) Apply(ctx context.Context, op CartOperator) (storeapi.CartSnapshot, error) {
	if err := a.Validate(); err != nil {
		return storeapi.CartSnapshot{}, err
	}
	if a.Kind == ActionRemove {
		return op.Remove(ctx, a.ItemID)
	}
	return op.SetQuantity(ctx, a.ItemID, a.Quantity)
}
