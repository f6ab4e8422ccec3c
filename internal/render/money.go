package render

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatNumber renders d with English digit grouping and at most maxFraction
// fraction digits, rounding half away from zero. Trailing zeros are dropped.
func FormatNumber(d decimal.Decimal, maxFraction int32) string {
	rounded := d.Round(maxFraction)
	abs := rounded.Abs()

	whole := abs.Truncate(0)
	out := printer.Sprintf("%d", whole.IntPart())

	if _, frac, ok := strings.Cut(abs.String(), "."); ok && frac != "" {
		out += "." + frac
	}
	if rounded.IsNegative() {
		out = "-" + out
	}
	return out
}

// Ksh renders a cart amount rounded to whole shillings.
func Ksh(d decimal.Decimal) string {
	return "Ksh " + FormatNumber(d, 0)
}
