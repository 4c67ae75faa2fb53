package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/session"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": message},
	})
}

func newAPIClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	api, err := NewClient(srv.URL)
	require.NoError(t, err)
	return api
}

func snapshotCart(id string, qty int) *domain.Cart {
	return &domain.Cart{
		ID:            id,
		CheckoutURL:   "https://shop.example.com/checkout",
		TotalQuantity: qty,
	}
}

func TestCartStore_InitWithoutCookieSkipsNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeData(w, http.StatusOK, map[string]any{"cart": nil})
	}))
	defer srv.Close()

	cart := NewCartStore(newAPIClient(t, srv))
	require.NoError(t, cart.Init(context.Background()))

	assert.Zero(t, calls)
	assert.Nil(t, cart.Cart())
}

func TestCartStore_InitWithCookieFetchesSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, map[string]any{"cart": snapshotCart("cart-1", 2)})
	}))
	defer srv.Close()

	api := newAPIClient(t, srv)
	u := mustParseURL(t, srv.URL)
	api.jar.SetCookies(u, []*http.Cookie{{Name: session.CartCookie, Value: "cart-1"}})
	require.True(t, api.HasCartCookie())

	cart := NewCartStore(api)
	require.NoError(t, cart.Init(context.Background()))

	require.NotNil(t, cart.Cart())
	assert.Equal(t, "cart-1", cart.Cart().ID)
	assert.Equal(t, 2, cart.Cart().TotalQuantity)
}

func TestCartStore_AddLineReplacesSnapshotAndOpensDrawer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/cart/add", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "variant-9", body["variant_id"])
		http.SetCookie(w, &http.Cookie{Name: session.CartCookie, Value: "cart-new", Path: "/"})
		writeData(w, http.StatusOK, map[string]any{"cart": snapshotCart("cart-new", 1)})
	}))
	defer srv.Close()

	api := newAPIClient(t, srv)
	cart := NewCartStore(api)
	require.False(t, cart.DrawerOpen())

	require.NoError(t, cart.AddLine(context.Background(), "variant-9", 1))

	assert.True(t, cart.DrawerOpen())
	assert.True(t, api.HasCartCookie())
	require.NotNil(t, cart.Cart())
	assert.Equal(t, "cart-new", cart.Cart().ID)
}

func TestCartStore_FailedMutationKeepsPriorSnapshot(t *testing.T) {
	fail := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			writeError(w, http.StatusBadGateway, "CART_MODIFY_FAILED", "failed to modify cart")
			return
		}
		writeData(w, http.StatusOK, map[string]any{"cart": snapshotCart("cart-1", 3)})
	}))
	defer srv.Close()

	cart := NewCartStore(newAPIClient(t, srv))
	require.NoError(t, cart.AddLine(context.Background(), "variant-1", 3))

	fail = true
	err := cart.UpdateLine(context.Background(), "line-1", 5)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CART_MODIFY_FAILED", appErr.Code)

	require.NotNil(t, cart.Cart())
	assert.Equal(t, 3, cart.Cart().TotalQuantity)
}

func TestCartStore_RemoveLastLineLeavesEmptySnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/cart/remove", r.URL.Path)
		writeData(w, http.StatusOK, map[string]any{"cart": snapshotCart("cart-1", 0)})
	}))
	defer srv.Close()

	cart := NewCartStore(newAPIClient(t, srv))
	require.NoError(t, cart.RemoveLine(context.Background(), "line-1"))

	require.NotNil(t, cart.Cart())
	assert.Zero(t, cart.Cart().TotalQuantity)
	assert.False(t, cart.DrawerOpen())
}

func TestCartStore_DrawerToggles(t *testing.T) {
	cart := NewCartStore(nil)

	cart.OpenDrawer()
	assert.True(t, cart.DrawerOpen())

	cart.CloseDrawer()
	assert.False(t, cart.DrawerOpen())
}
