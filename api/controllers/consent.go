package controllers

import (
	"net/http"

	"github.com/glazeworks/window-storefront/api/responses"
	"github.com/glazeworks/window-storefront/internal/identity"
	"github.com/glazeworks/window-storefront/pkg/enums"
	pkgerrors "github.com/glazeworks/window-storefront/pkg/errors"
	"github.com/glazeworks/window-storefront/pkg/logger"
)

type consentResponse struct {
	Consent       enums.ConsentState `json:"consent"`
	BannerVisible bool               `json:"bannerVisible"`
}

func ConsentAccept(logg *logger.Logger) http.HandlerFunc {
	return consentHandler(logg, enums.ConsentAccepted, identity.Accept)
}

// ConsentReject records the refusal and drops any persistent cart cookie.
func ConsentReject(logg *logger.Logger) http.HandlerFunc {
	return consentHandler(logg, enums.ConsentRejected, identity.Reject)
}

func consentHandler(logg *logger.Logger, state enums.ConsentState, apply func(identity.Storage) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := requestStore(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := apply(store); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording consent"))
			return
		}
		responses.WriteSuccess(w, consentResponse{
			Consent:       state,
			BannerVisible: identity.BannerVisible(store),
		})
	}
}
