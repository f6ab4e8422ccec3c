package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glazeworks/window-storefront/pkg/enums"
	"github.com/stretchr/testify/require"
)

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestCookieStoreMintsDurableCartCookie(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	store := NewCookieStore(rec, req, CookieOptions{Secure: true})

	got := newTestResolver().Resolve(req.Context(), "", store)

	cookie := findCookie(t, rec, CartCookieName)
	if cookie == nil {
		t.Fatalf("expected cartId cookie to be set")
	}
	require.Equal(t, got.ID, cookie.Value)
	require.Equal(t, oneYear, cookie.MaxAge)
	require.Equal(t, "/", cookie.Path)
	require.True(t, cookie.Secure)
	require.Equal(t, http.SameSiteStrictMode, cookie.SameSite)

	// the minted value is visible to later reads in the same request
	again := newTestResolver().Resolve(req.Context(), "", store)
	require.Equal(t, got.ID, again.ID)
}

func TestCookieStoreReadsExistingCookies(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CartCookieName, Value: "cart-5-known"})
	req.AddCookie(&http.Cookie{Name: ConsentCookieName, Value: "accepted"})
	rec := httptest.NewRecorder()
	store := NewCookieStore(rec, req, CookieOptions{})

	got := newTestResolver().Resolve(req.Context(), "", store)
	require.Equal(t, "cart-5-known", got.ID)
	require.Empty(t, rec.Result().Cookies())
}

func TestCookieStoreRejectedUsesSessionCookie(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ConsentCookieName, Value: "rejected"})
	rec := httptest.NewRecorder()
	store := NewCookieStore(rec, req, CookieOptions{Secure: true})

	got := newTestResolver().Resolve(req.Context(), "", store)
	require.Equal(t, SourceSession, got.Source)

	session := findCookie(t, rec, SessionCookieName)
	if session == nil {
		t.Fatalf("expected session cookie")
	}
	require.Equal(t, got.ID, session.Value)
	require.Zero(t, session.MaxAge)
	require.Nil(t, findCookie(t, rec, CartCookieName))
}

func TestCookieStoreUnknownConsentIsUnset(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ConsentCookieName, Value: "maybe"})
	store := NewCookieStore(httptest.NewRecorder(), req, CookieOptions{})

	state, err := store.Consent()
	require.NoError(t, err)
	require.Equal(t, enums.ConsentUnset, state)
}

func TestCookieStoreWithoutWriterIsUnavailable(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	store := NewCookieStore(nil, req, CookieOptions{})

	got := newTestResolver().Resolve(req.Context(), "", store)
	require.Equal(t, SourceFallback, got.Source)
}
