package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func TestCartCookie_Attributes(t *testing.T) {
	m := NewManager(true)
	rec := httptest.NewRecorder()
	m.SetCartID(rec, "gid://shopify/Cart/abc")

	c := findCookie(t, rec, CartCookie)
	assert.Equal(t, "gid://shopify/Cart/abc", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 7*24*3600, c.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.True(t, c.Secure)
	// Client-side code reads the cart id, so it must stay script-accessible.
	assert.False(t, c.HttpOnly)
}

func TestTokenCookie_Attributes(t *testing.T) {
	m := NewManager(true)
	rec := httptest.NewRecorder()
	m.SetToken(rec, "tok-123")

	c := findCookie(t, rec, TokenCookie)
	assert.Equal(t, "tok-123", c.Value)
	assert.Equal(t, 30*24*3600, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestDevelopmentCookiesNotSecure(t *testing.T) {
	m := NewManager(false)
	rec := httptest.NewRecorder()
	m.SetCartID(rec, "abc")
	m.SetToken(rec, "tok")

	assert.False(t, findCookie(t, rec, CartCookie).Secure)
	assert.False(t, findCookie(t, rec, TokenCookie).Secure)
}

func TestClearExpiresCookies(t *testing.T) {
	m := NewManager(true)
	rec := httptest.NewRecorder()
	m.ClearCartID(rec)
	m.ClearToken(rec)

	assert.Less(t, findCookie(t, rec, CartCookie).MaxAge, 0)
	assert.Less(t, findCookie(t, rec, TokenCookie).MaxAge, 0)
}

func TestReadHelpers_MissingCookieIsEmpty(t *testing.T) {
	m := NewManager(false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Empty(t, m.CartID(req))
	assert.Empty(t, m.Token(req))
}

func TestReadHelpers_RoundTrip(t *testing.T) {
	m := NewManager(false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CartCookie, Value: "cart-1"})
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "tok-1"})

	require.Equal(t, "cart-1", m.CartID(req))
	require.Equal(t, "tok-1", m.Token(req))
}
