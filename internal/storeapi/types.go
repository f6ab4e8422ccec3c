package storeapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Text accepts either a JSON string or a JSON number and keeps its text form.
// The pricing API is not consistent about quoting panel counts and thicknesses.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(data))
	}
	*t = Text(n.String())
	return nil
}

func (t Text) String() string {
	return string(t)
}

// Measurements are in millimetres.
type Measurements struct {
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
}

// CartItem is one configured window line in a snapshot.
type CartItem struct {
	ID             string          `json:"_id"`
	Type           string          `json:"type"`
	Measurements   Measurements    `json:"measurements"`
	ProfileColour  Text            `json:"profileColour"`
	GlassType      Text            `json:"glassType"`
	GlassThickness Text            `json:"glassThickness"`
	NoOfPanels     Text            `json:"noOfPanels"`
	FixedPartition Text            `json:"fixedPartition"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	Quantity       int             `json:"quantity"`
}

// Totals are computed server-side.
type Totals struct {
	TotalItems int             `json:"totalItems"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

// CartSnapshot is the full server view of a cart. A fresh snapshot replaces
// the previous one wholesale.
type CartSnapshot struct {
	Items  []CartItem `json:"items"`
	Totals Totals     `json:"totals"`
}

// Empty reports whether the snapshot has no items.
func (s CartSnapshot) Empty() bool {
	return len(s.Items) == 0
}

// CalculationRequest is the body of POST /api/calculations.
type CalculationRequest struct {
	Height         int    `json:"height"`
	Width          int    `json:"width"`
	NoOfPanels     string `json:"noOfPanels"`
	FixedPartition string `json:"fixedPartition"`
	GlassType      string `json:"glassType"`
	GlassThickness string `json:"glassThickness"`
	ProfileColour  string `json:"profileColour"`
}

// CalculationResponse keeps both price fields; callers decide which applies.
type CalculationResponse struct {
	Success   bool             `json:"success"`
	TotalCost *decimal.Decimal `json:"totalCost"`
	Cost      *decimal.Decimal `json:"cost"`
	Breakdown json.RawMessage  `json:"breakdown"`
	Error     string           `json:"error"`
}

// AddItemRequest is the body of POST /api/cart: the full configuration plus
// the computed cost and breakdown.
type AddItemRequest struct {
	CalculationRequest
	Cost      json.Number     `json:"cost"`
	Breakdown json.RawMessage `json:"breakdown"`
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type cartResponse struct {
	envelope
	Items  []CartItem `json:"items"`
	Totals Totals     `json:"totals"`
}

type saveSessionResponse struct {
	envelope
	PersistentCartID string `json:"persistentCartId"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}
