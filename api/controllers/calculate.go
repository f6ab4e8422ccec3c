package controllers

import (
	"net/http"

	"github.com/glazeworks/window-storefront/api/responses"
	"github.com/glazeworks/window-storefront/api/validators"
	"github.com/glazeworks/window-storefront/internal/calculator"
	"github.com/glazeworks/window-storefront/pkg/logger"
)

// Calculate prices the submitted form and remembers the result for the
// visitor's next add-to-cart.
func Calculate(calc *calculator.Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := requestIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validators.ParseForm(w, r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		form := calculator.FormInput{
			Height:         validators.FormValue(r, "height"),
			Width:          validators.FormValue(r, "width"),
			NoOfPanels:     validators.FormValue(r, "noOfPanels"),
			FixedPartition: validators.FormValue(r, "fixedPartition"),
			GlassType:      validators.FormValue(r, "glassType"),
			GlassThickness: validators.FormValue(r, "glassThickness"),
			ProfileColour:  validators.FormValue(r, "profileColour"),
		}

		result, err := calc.Calculate(r.Context(), id.ID, form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
