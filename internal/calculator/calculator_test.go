package calculator

import (
	"context"
	"errors"
	"testing"

	"github.com/glazeworks/window-storefront/internal/cart"
	"github.com/glazeworks/window-storefront/internal/storeapi"
	pkgerrors "github.com/glazeworks/window-storefront/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type stubPricer struct {
	calls []storeapi.CalculationRequest
	resp  storeapi.CalculationResponse
	err   error
}

func (s *stubPricer) Calculate(_ context.Context, req storeapi.CalculationRequest) (storeapi.CalculationResponse, error) {
	s.calls = append(s.calls, req)
	return s.resp, s.err
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func validForm() FormInput {
	return FormInput{
		Height:         "900",
		Width:          "1200",
		NoOfPanels:     "2",
		FixedPartition: "noPartition",
		GlassType:      "clear",
		GlassThickness: "6mm",
		ProfileColour:  "white",
	}
}

func TestCalculateSuccessWritesFormattedCost(t *testing.T) {
	t.Parallel()

	pricer := &stubPricer{resp: storeapi.CalculationResponse{Success: true, TotalCost: dec("12345.5"), Breakdown: []byte(`{"glass":1}`)}}
	store := cart.NewMemoryCalculations(0)
	calc := New(pricer, store, nil)

	res, err := calc.Calculate(context.Background(), "cart-1", validForm())
	require.NoError(t, err)
	require.Len(t, pricer.calls, 1)
	require.Equal(t, "KSh 12,345.5", res.Display)

	sent := pricer.calls[0]
	require.Equal(t, 900, sent.Height)
	require.Equal(t, 1200, sent.Width)
	require.Equal(t, "noPartition", sent.FixedPartition)

	stored, ok, err := store.Load(context.Background(), "cart-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, stored.Cost.Equal(decimal.RequireFromString("12345.5")))
	require.Equal(t, sent, stored.Config)
	require.JSONEq(t, `{"glass":1}`, string(stored.Breakdown))
}

func TestCalculateFallsBackToCost(t *testing.T) {
	t.Parallel()

	pricer := &stubPricer{resp: storeapi.CalculationResponse{Success: false, Cost: dec("800")}}
	res, err := New(pricer, cart.NewMemoryCalculations(0), nil).Calculate(context.Background(), "cart-1", validForm())
	require.NoError(t, err)
	require.Equal(t, "KSh 800", res.Display)
	require.JSONEq(t, `{}`, string(res.Breakdown))

	// totalCost is ignored unless the response reports success
	pricer = &stubPricer{resp: storeapi.CalculationResponse{Success: false, TotalCost: dec("1"), Cost: dec("2")}}
	res, err = New(pricer, nil, nil).Calculate(context.Background(), "cart-1", validForm())
	require.NoError(t, err)
	require.Equal(t, "KSh 2", res.Display)
}

func TestCalculateInvalidDimensionsMakeNoRequest(t *testing.T) {
	t.Parallel()

	cases := map[string][2]string{
		"zero height":    {"0", "100"},
		"negative width": {"100", "-5"},
		"missing height": {"", "100"},
		"missing width":  {"100", ""},
		"not numeric":    {"abc", "100"},
	}
	for name, dims := range cases {
		pricer := &stubPricer{}
		form := validForm()
		form.Height, form.Width = dims[0], dims[1]

		_, err := New(pricer, nil, nil).Calculate(context.Background(), "cart-1", form)
		if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
		if pkgerrors.As(err).Message() != MsgInvalidDimensions {
			t.Fatalf("%s: unexpected message %q", name, pkgerrors.As(err).Message())
		}
		if len(pricer.calls) != 0 {
			t.Fatalf("%s: expected no pricing request, got %d", name, len(pricer.calls))
		}
	}
}

func TestCalculateDistinguishesTransportFailure(t *testing.T) {
	t.Parallel()

	transport := pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("dial tcp: connection refused"), "unreachable")
	_, err := New(&stubPricer{err: transport}, nil, nil).Calculate(context.Background(), "cart-1", validForm())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	require.Equal(t, MsgWakingUp, pkgerrors.As(err).Message())

	upstream := pkgerrors.New(pkgerrors.CodeUpstream, "status 500")
	_, err = New(&stubPricer{err: upstream}, nil, nil).Calculate(context.Background(), "cart-1", validForm())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUpstream))
	require.Equal(t, MsgFailed, pkgerrors.As(err).Message())
}

func TestCalculateMissingPriceIsMalformed(t *testing.T) {
	t.Parallel()

	store := cart.NewMemoryCalculations(0)
	_, err := New(&stubPricer{resp: storeapi.CalculationResponse{Success: true}}, store, nil).
		Calculate(context.Background(), "cart-1", validForm())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeMalformed))
	require.Equal(t, MsgFailed, pkgerrors.As(err).Message())

	_, ok, _ := store.Load(context.Background(), "cart-1")
	require.False(t, ok)
}

func TestLeadingInt(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"":      0,
		"12":    12,
		" 12 ":  12,
		"12.9":  12,
		"12abc": 12,
		"-5":    -5,
		"+7":    7,
		"abc":   0,
		"1e3":   1,
	}
	for in, want := range cases {
		if got := leadingInt(in); got != want {
			t.Fatalf("leadingInt(%q): expected %d, got %d", in, want, got)
		}
	}
}

func TestDisplay(t *testing.T) {
	t.Parallel()

	require.Equal(t, "KSh 1,234,567.891", Display(decimal.RequireFromString("1234567.8912")))
	require.Equal(t, "KSh 0", Display(decimal.Zero))
}
