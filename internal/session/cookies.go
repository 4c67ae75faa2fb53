// Package session manages the two cookies that carry all storefront session
// state: the cart id and the customer access token. There is no server-side
// session storage; the remote platform owns both resources.
package session

import (
	"net/http"
	"time"
)

const (
	// CartCookie names the cart id cookie. It is readable by client-side
	// code, so it is deliberately not HttpOnly.
	CartCookie = "cartId"

	// TokenCookie names the customer access token cookie. HttpOnly.
	TokenCookie = "customerAccessToken"

	cartMaxAge  = int(7 * 24 * time.Hour / time.Second)
	tokenMaxAge = int(30 * 24 * time.Hour / time.Second)
)

// Manager reads and writes the session cookie pair. Secure is set in
// production so cookies only travel over TLS.
type Manager struct {
	secure bool
}

// NewManager builds a Manager. secure should be true outside development.
func NewManager(secure bool) *Manager {
	return &Manager{secure: secure}
}

// CartID returns the current cart id, or "" when the visitor has no cart.
// The empty string is a valid state, not an error.
func (m *Manager) CartID(r *http.Request) string {
	c, err := r.Cookie(CartCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

// SetCartID stores a newly created cart id for 7 days.
func (m *Manager) SetCartID(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CartCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   cartMaxAge,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.secure,
	})
}

// ClearCartID drops the cart cookie, used when the platform no longer knows
// the cart id.
func (m *Manager) ClearCartID(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CartCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.secure,
	})
}

// Token returns the customer access token, or "" when signed out.
func (m *Manager) Token(r *http.Request) string {
	c, err := r.Cookie(TokenCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

// SetToken stores a customer access token for 30 days.
func (m *Manager) SetToken(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   tokenMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.secure,
	})
}

// ClearToken signs the customer out by expiring the token cookie.
func (m *Manager) ClearToken(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.secure,
	})
}
