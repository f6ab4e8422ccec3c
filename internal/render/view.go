package render

import (
	"fmt"
	"strconv"

	"github.com/glazeworks/window-storefront/internal/storeapi"
	"github.com/shopspring/decimal"
)

// CartView is the display model of a snapshot. An empty cart has Empty set
// and nothing else.
type CartView struct {
	Empty      bool       `json:"empty"`
	Items      []ItemView `json:"items,omitempty"`
	TotalItems string     `json:"totalItems,omitempty"`
	GrandTotal string     `json:"grandTotal,omitempty"`
}

type ItemView struct {
	ID         string `json:"id"`
	Image      string `json:"image"`
	Label      string `json:"label"`
	Dimensions string `json:"dimensions"`
	Colour     string `json:"colour"`
	Glass      string `json:"glass"`
	UnitPrice  string `json:"unitPrice"`
	Quantity   int    `json:"quantity"`
	LineTotal  string `json:"lineTotal"`

	Increment ItemAction `json:"increment"`
	Decrement ItemAction `json:"decrement"`
	Remove    ItemAction `json:"remove"`
}

// Project maps a snapshot to its view. It has no side effects.
func Project(snap storeapi.CartSnapshot) CartView {
	if snap.Empty() {
		return CartView{Empty: true}
	}

	items := make([]ItemView, 0, len(snap.Items))
	for _, item := range snap.Items {
		items = append(items, projectItem(item))
	}

	return CartView{
		Items:      items,
		TotalItems: "Total Items: " + strconv.Itoa(snap.Totals.TotalItems),
		GrandTotal: Ksh(snap.Totals.GrandTotal),
	}
}

func projectItem(item storeapi.CartItem) ItemView {
	lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	return ItemView{
		ID:         item.ID,
		Image:      fmt.Sprintf("/img/labels/%s.png", item.Type),
		Label:      TypeLabel(item.Type),
		Dimensions: fmt.Sprintf("%s × %s mm", item.Measurements.Width.String(), item.Measurements.Height.String()),
		Colour:     fmt.Sprintf("[%s]", item.ProfileColour),
		Glass:      fmt.Sprintf("%s %s glass", item.GlassThickness, item.GlassType),
		UnitPrice:  Ksh(item.UnitPrice),
		Quantity:   item.Quantity,
		LineTotal:  Ksh(lineTotal),
		Increment:  ItemAction{Kind: ActionIncrement, ItemID: item.ID, Quantity: item.Quantity + 1},
		Decrement:  ItemAction{Kind: ActionDecrement, ItemID: item.ID, Quantity: item.Quantity - 1},
		Remove:     ItemAction{Kind: ActionRemove, ItemID: item.ID},
	}
}
