package identity

import "github.com/glazeworks/window-storefront/pkg/enums"

// Accept records that the visitor allows the durable cart cookie.
func Accept(store Storage) error {
	return store.SetConsent(enums.ConsentAccepted)
}

// Reject records the refusal and drops any durable cart cookie. Later page
// loads fall back to a session-scoped cart.
func Reject(store Storage) error {
	if err := store.SetConsent(enums.ConsentRejected); err != nil {
		return err
	}
	return store.ClearCartCookie()
}

// BannerVisible reports whether the consent banner should be shown.
func BannerVisible(store Storage) bool {
	state, err := store.Consent()
	if err != nil {
		return false
	}
	return state == enums.ConsentUnset
}
