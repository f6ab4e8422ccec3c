package identity

import (
	"errors"
	"net/http"
	"sync"

	"github.com/glazeworks/window-storefront/pkg/enums"
)

const (
	CartCookieName    = "cartId"
	SessionCookieName = "sessionCartId"
	ConsentCookieName = "cookieConsent"

	// oneYear is the max-age, in seconds, of the durable cookies.
	oneYear = 365 * 24 * 60 * 60
)

// ErrStorageUnavailable is returned when the visitor's storage cannot be
// read or written.
var ErrStorageUnavailable = errors.New("identity storage unavailable")

// Storage is the per-visitor state the resolver reads and writes. Values
// written through a Storage are visible to later reads on the same value.
type Storage interface {
	Consent() (enums.ConsentState, error)
	SetConsent(enums.ConsentState) error
	CartCookie() (string, error)
	SetCartCookie(string) error
	ClearCartCookie() error
	SessionCart() (string, error)
	SetSessionCart(string) error
}

// CookieOptions tunes the cookies written by CookieStore.
type CookieOptions struct {
	Secure bool
}

// CookieStore keeps visitor state in HTTP cookies for a single request.
type CookieStore struct {
	r    *http.Request
	w    http.ResponseWriter
	opts CookieOptions

	mu      sync.Mutex
	written map[string]string
}

// NewCookieStore binds a store to one request/response pair.
func NewCookieStore(w http.ResponseWriter, r *http.Request, opts CookieOptions) *CookieStore {
	return &CookieStore{r: r, w: w, opts: opts, written: map[string]string{}}
}

func (s *CookieStore) Consent() (enums.ConsentState, error) {
	raw, err := s.read(ConsentCookieName)
	if err != nil {
		return enums.ConsentUnset, err
	}
	state, err := enums.ParseConsentState(raw)
	if err != nil {
		// anything unrecognised counts as no decision
		return enums.ConsentUnset, nil
	}
	return state, nil
}

func (s *CookieStore) SetConsent(state enums.ConsentState) error {
	return s.write(&http.Cookie{
		Name:     ConsentCookieName,
		Value:    string(state),
		Path:     "/",
		MaxAge:   oneYear,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *CookieStore) CartCookie() (string, error) {
	return s.read(CartCookieName)
}

func (s *CookieStore) SetCartCookie(value string) error {
	return s.write(&http.Cookie{
		Name:     CartCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   oneYear,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *CookieStore) ClearCartCookie() error {
	return s.write(&http.Cookie{
		Name:     CartCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *CookieStore) SessionCart() (string, error) {
	return s.read(SessionCookieName)
}

// SetSessionCart writes a cookie without Max-Age so it ends with the browser session.
func (s *CookieStore) SetSessionCart(value string) error {
	return s.write(&http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *CookieStore) read(name string) (string, error) {
	if s == nil || s.r == nil {
		return "", ErrStorageUnavailable
	}
	s.mu.Lock()
	value, ok := s.written[name]
	s.mu.Unlock()
	if ok {
		return value, nil
	}
	cookie, err := s.r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

func (s *CookieStore) write(cookie *http.Cookie) error {
	if s == nil || s.w == nil {
		return ErrStorageUnavailable
	}
	http.SetCookie(s.w, cookie)
	s.mu.Lock()
	s.written[cookie.Name] = cookie.Value
	s.mu.Unlock()
	return nil
}

// MemoryStore is an in-process Storage used by tooling and tests. Err, when
// set, is returned from every call.
type MemoryStore struct {
	mu sync.Mutex

	ConsentValue enums.ConsentState
	Cookie       string
	Session      string
	Err          error

	CookieWrites  int
	SessionWrites int
	CookieClears  int
}

func (m *MemoryStore) Consent() (enums.ConsentState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return enums.ConsentUnset, m.Err
	}
	return m.ConsentValue, nil
}

func (m *MemoryStore) SetConsent(state enums.ConsentState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.ConsentValue = state
	return nil
}

func (m *MemoryStore) CartCookie() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return m.Cookie, nil
}

func (m *MemoryStore) SetCartCookie(value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Cookie = value
	m.CookieWrites++
	return nil
}

func (m *MemoryStore) ClearCartCookie() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Cookie = ""
	m.CookieClears++
	return nil
}

func (m *MemoryStore) SessionCart() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return m.Session, nil
}

func (m *MemoryStore) SetSessionCart(value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Session = value
	m.SessionWrites++
	return nil
}
