package calculator

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/glazeworks/window-storefront/internal/cart"
	"github.com/glazeworks/window-storefront/internal/render"
	"github.com/glazeworks/window-storefront/internal/storeapi"
	pkgerrors "github.com/glazeworks/window-storefront/pkg/errors"
	"github.com/glazeworks/window-storefront/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	MsgInvalidDimensions = "Please enter valid height and width values"
	MsgWakingUp          = "Calculator engine is waking up. Please give it a few seconds."
	MsgFailed            = "Error calculating cost. Please try again."

	displayFraction = 3
)

var validate = validator.New()

// FormInput holds the raw calculator form fields.
type FormInput struct {
	Height         string
	Width          string
	NoOfPanels     string
	FixedPartition string
	GlassType      string
	GlassThickness string
	ProfileColour  string
}

type dimensions struct {
	Height int `validate:"required,gt=0"`
	Width  int `validate:"required,gt=0"`
}

// Result is a successful calculation as shown in the cost field.
type Result struct {
	Cost      decimal.Decimal `json:"cost"`
	Display   string          `json:"display"`
	Breakdown json.RawMessage `json:"breakdown,omitempty"`
}

// Pricer posts configurations to the pricing endpoint.
type Pricer interface {
	Calculate(ctx context.Context, req storeapi.CalculationRequest) (storeapi.CalculationResponse, error)
}

type Calculator struct {
	pricer Pricer
	store  cart.CalculationStore
	logg   *logger.Logger
	now    func() time.Time
}

func New(pricer Pricer, store cart.CalculationStore, logg *logger.Logger) *Calculator {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Calculator{pricer: pricer, store: store, logg: logg, now: time.Now}
}

// Calculate validates the form, prices it and remembers the result as the
// cart's last calculation. Invalid dimensions never reach the network.
func (c *Calculator) Calculate(ctx context.Context, cartID string, form FormInput) (Result, error) {
	req, err := Parse(form)
	if err != nil {
		return Result{}, err
	}

	resp, err := c.pricer.Calculate(ctx, req)
	if err != nil {
		return Result{}, c.fail(ctx, err)
	}

	cost, ok := pickCost(resp)
	if !ok {
		return Result{}, c.fail(ctx, pkgerrors.New(pkgerrors.CodeMalformed, "invalid response format from server"))
	}

	breakdown := resp.Breakdown
	if len(breakdown) == 0 || string(breakdown) == "null" {
		breakdown = json.RawMessage(`{}`)
	}

	calc := cart.Calculation{
		Config:       req,
		Cost:         cost,
		Breakdown:    breakdown,
		CalculatedAt: c.now().UTC(),
	}
	if c.store != nil {
		if err := c.store.Save(ctx, cartID, calc); err != nil {
			c.logg.Error(c.logg.WithField(ctx, "cart_id", cartID), "calculation.store.failed", err)
		}
	}

	return Result{
		Cost:      cost,
		Display:   Display(cost),
		Breakdown: breakdown,
	}, nil
}

// Parse validates the dimensions and builds the pricing request.
func Parse(form FormInput) (storeapi.CalculationRequest, error) {
	dims := dimensions{
		Height: leadingInt(form.Height),
		Width:  leadingInt(form.Width),
	}
	if err := validate.Struct(dims); err != nil {
		return storeapi.CalculationRequest{}, pkgerrors.New(pkgerrors.CodeValidation, MsgInvalidDimensions)
	}
	return storeapi.CalculationRequest{
		Height:         dims.Height,
		Width:          dims.Width,
		NoOfPanels:     strings.TrimSpace(form.NoOfPanels),
		FixedPartition: strings.TrimSpace(form.FixedPartition),
		GlassType:      strings.TrimSpace(form.GlassType),
		GlassThickness: strings.TrimSpace(form.GlassThickness),
		ProfileColour:  strings.TrimSpace(form.ProfileColour),
	}, nil
}

// Display formats a cost for the form's cost field.
func Display(cost decimal.Decimal) string {
	return "KSh " + render.FormatNumber(cost, displayFraction)
}

// pickCost prefers totalCost on a success response and falls back to cost.
func pickCost(resp storeapi.CalculationResponse) (decimal.Decimal, bool) {
	if resp.Success && resp.TotalCost != nil {
		return *resp.TotalCost, true
	}
	if resp.Cost != nil {
		return *resp.Cost, true
	}
	return decimal.Zero, false
}

func (c *Calculator) fail(ctx context.Context, err error) error {
	ctx = c.logg.WithFields(ctx, pkgerrors.Dump(err).Fields())
	c.logg.Error(ctx, "calculation.failed", err)

	code := pkgerrors.CodeOf(err)
	if code == pkgerrors.CodeDependency {
		return pkgerrors.Wrap(code, err, MsgWakingUp)
	}
	if code == pkgerrors.CodeInternal {
		code = pkgerrors.CodeUpstream
	}
	return pkgerrors.Wrap(code, err, MsgFailed)
}

// leadingInt reads an optional sign and the leading decimal digits of s,
// ignoring whatever follows. Input without leading digits yields zero.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		if n > 1_000_000_000 {
			break
		}
	}
	if neg {
		return -n
	}
	return n
}
