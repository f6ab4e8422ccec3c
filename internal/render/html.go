package render

import (
	"bytes"
	"html/template"
)

var cartTemplate = template.Must(template.New("cart").Funcs(template.FuncMap{
	"actionClass": actionClass,
	"actionText":  actionText,
}).Parse(`<div class="cart-container">
{{- if .Empty}}
  <div class="empty-cart">
    <p>Your cart is empty</p>
  </div>
{{- else}}
  <div class="cart-header">
    <div class="preview-head">Preview</div>
    <div class="desc-head">Description</div>
    <div class="price-head">Unit Price</div>
    <div class="qty-head">Quantity</div>
    <div class="total-head">Total</div>
  </div>
  {{- range .Items}}
  <div class="cart-item" data-id="{{.ID}}">
    <div class="preview">
      <img src="{{.Image}}" alt="{{.Label}}" width="100" height="100">
    </div>
    <div class="description">
      <h4>{{.Dimensions}}</h4>
      <p>{{.Colour}}</p>
      <p>{{.Glass}}</p>
      {{template "action" .Remove}}
    </div>
    <div class="price">{{.UnitPrice}}</div>
    <div class="quantity">
      {{template "action" .Increment}}
      <span class="qty-value">{{.Quantity}}</span>
      {{template "action" .Decrement}}
    </div>
    <div class="total">{{.LineTotal}}</div>
  </div>
  {{- end}}
  <div class="cart-footer">
    <div class="total-items">{{.TotalItems}}</div>
    <div class="grand-total"><strong>Grand Total:</strong> {{.GrandTotal}}</div>
  </div>
  <div class="cart-actions">
    <button class="clear-cart-btn" data-cart-action="clear">Clear Cart</button>
    <button class="export-btn" data-cart-action="export">Contact Us with this order</button>
  </div>
{{- end}}
</div>
{{define "action"}}<button class="{{actionClass .Kind}}" data-action="{{.Kind}}" data-item-id="{{.ItemID}}" data-quantity="{{.Quantity}}">{{actionText .Kind}}</button>{{end}}`))

func actionClass(kind ActionKind) string {
	switch kind {
	case ActionIncrement:
		return "qty-btn plus"
	case ActionDecrement:
		return "qty-btn minus"
	default:
		return "remove-btn"
	}
}

func actionText(kind ActionKind) string {
	switch kind {
	case ActionIncrement:
		return "+"
	case ActionDecrement:
		return "−"
	default:
		return "Remove"
	}
}

// HTML materialises a view as the cart fragment.
func HTML(view CartView) (template.HTML, error) {
	var buf bytes.Buffer
	if err := cartTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
