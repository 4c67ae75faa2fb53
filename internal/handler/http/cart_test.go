package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/internal/session"
	"github.com/utafrali/storefront/internal/shopify"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// ============================================================================
// Mock remote cart API
// ============================================================================

type mockCommerceCart struct {
	mock.Mock
}

func (m *mockCommerceCart) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCommerceCart) CreateCart(ctx context.Context, lines []shopify.CartLineInput) (*domain.Cart, error) {
	args := m.Called(ctx, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCommerceCart) AddCartLines(ctx context.Context, cartID string, lines []shopify.CartLineInput) (*domain.Cart, error) {
	args := m.Called(ctx, cartID, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCommerceCart) UpdateCartLines(ctx context.Context, cartID string, lines []shopify.CartLineUpdateInput) (*domain.Cart, error) {
	args := m.Called(ctx, cartID, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCommerceCart) RemoveCartLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error) {
	args := m.Called(ctx, cartID, lineIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newCartHandler(remote *mockCommerceCart) *CartHandler {
	logger := testLogger()
	svc := service.NewCartService(remote, logger)
	return NewCartHandler(svc, session.NewManager(false), logger)
}

func testCart() *domain.Cart {
	return &domain.Cart{
		ID:            "cart-123",
		CheckoutURL:   "https://acme.myshopify.com/checkout/abc",
		TotalQuantity: 1,
		Lines: []domain.CartLine{
			{ID: "line-1", Quantity: 1, Merchandise: domain.Merchandise{VariantID: "var-1"}},
		},
	}
}

func setCookies(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// ============================================================================
// GET /cart
// ============================================================================

func TestGetCart_NoCookieIsNullCart(t *testing.T) {
	remote := new(mockCommerceCart)
	h := newCartHandler(remote)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	assert.Nil(t, data["cart"])
	assert.Empty(t, setCookies(rec), "no cookie should be touched without a cart")
	remote.AssertNotCalled(t, "GetCart")
}

func TestGetCart_StaleCookieIsCleared(t *testing.T) {
	remote := new(mockCommerceCart)
	remote.On("GetCart", mock.Anything, "stale-id").Return(nil, nil)
	h := newCartHandler(remote)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: session.CartCookie, Value: "stale-id"})
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	assert.Nil(t, data["cart"])

	cleared, ok := setCookies(rec)[session.CartCookie]
	require.True(t, ok, "stale cart cookie must be cleared")
	assert.Less(t, cleared.MaxAge, 0)
}

func TestGetCart_TransportFailureDegradesToNull(t *testing.T) {
	remote := new(mockCommerceCart)
	remote.On("GetCart", mock.Anything, "cart-123").Return(nil, apperrors.Unavailable("down"))
	h := newCartHandler(remote)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: session.CartCookie, Value: "cart-123"})
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, "read failures must not error the page")
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	assert.Nil(t, data["cart"])
	assert.Empty(t, setCookies(rec), "cookie must survive a transient failure")
}

func TestGetCart_ReturnsCart(t *testing.T) {
	remote := new(mockCommerceCart)
	remote.On("GetCart", mock.Anything, "cart-123").Return(testCart(), nil)
	h := newCartHandler(remote)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: session.CartCookie, Value: "cart-123"})
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	cart := data["cart"].(map[string]any)
	assert.Equal(t, "cart-123", cart["id"])
}

// ============================================================================
// POST /cart/add
// ============================================================================

func postJSON(path string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAddLine_FirstAddSetsCookieOnce(t *testing.T) {
	remote := new(mockCommerceCart)
	remote.On("CreateCart", mock.Anything, []shopify.CartLineInput{{MerchandiseID: "var-1", Quantity: 2}}).
		Return(testCart(), nil)
	h := newCartHandler(remote)

	req := postJSON("/api/v1/cart/add", AddLineRequest{VariantID: "var-1", Quantity: 2})
	rec := httptest.NewRecorder()
	h.AddLine(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	c, ok := setCookies(rec)[session.CartCookie]
	require.True(t, ok, "first add must persist the new cart id")
	assert.Equal(t, "cart-123", c.Value)
	assert.Positive(t, c.MaxAge)
}

func TestAddLine_ExistingCartNeverResetsCookie(t *testing.T) {
	remote := new(mockCommerceCart)
	remote.On("AddCartLines", mock.Anything, "cart-123", mock.Anything).Return(testCart(), nil)
	h := newCartHandler(remote)

	req := postJSON("/api/v1/cart/add", AddLineRequest{VariantID: "var-1", Quantity: 1})
	req.AddCookie(&http.Cookie{Name: session.CartCookie, Value: "cart-123"})
	rec := httptest.NewRecorder()
	h.AddLine(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, setCookies(rec))
}

func TestAddLine_FailureLeavesCookieUntouched(t *testing.T) {
	remote := new(mockCommerceCart)
	remote.On("AddCartLines", mock.Anything, "cart-123", mock.Anything).
		Return(nil, &shopify.UserErrorsError{Errors: []shopify.UserError{{Message: "sold out"}}})
	h := newCartHandler(remote)

	req := postJSON("/api/v1/cart/add", AddLineRequest{VariantID: "var-1", Quantity: 1})
	req.AddCookie(&http.Cookie{Name: session.CartCookie, Value: "cart-123"})
	rec := httptest.NewRecorder()
	h.AddLine(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Empty(t, setCookies(rec))

	errBody := decodeEnvelope(t, rec)["error"].(map[string]any)
	assert.Equal(t, "CART_MODIFY_FAILED", errBody["code"])
}

func TestAddLine_RejectsInvalidBody(t *testing.T) {
	h := newCartHandler(new(mockCommerceCart))

	req := postJSON("/api/v1/cart/add", map[string]any{"variant_id": "", "quantity": 0})
	rec := httptest.NewRecorder()
	h.AddLine(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================================================
// POST /cart/update and /cart/remove
// ============================================================================

func TestUpdateLine_ZeroQuantityAccepted(t *testing.T) {
	empty := &domain.Cart{ID: "cart-123", Lines: []domain.CartLine{}}
	remote := new(mockCommerceCart)
	remote.On("UpdateCartLines", mock.Anything, "cart-123",
		[]shopify.CartLineUpdateInput{{ID: "line-1", Quantity: 0}}).Return(empty, nil)
	h := newCartHandler(remote)

	qty := 0
	req := postJSON("/api/v1/cart/update", UpdateLineRequest{LineID: "line-1", Quantity: &qty})
	req.AddCookie(&http.Cookie{Name: session.CartCookie, Value: "cart-123"})
	rec := httptest.NewRecorder()
	h.UpdateLine(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	cart := data["cart"].(map[string]any)
	assert.Empty(t, cart["lines"])
}

func TestUpdateLine_WithoutCartIs404(t *testing.T) {
	h := newCartHandler(new(mockCommerceCart))

	qty := 2
	req := postJSON("/api/v1/cart/update", UpdateLineRequest{LineID: "line-1", Quantity: &qty})
	rec := httptest.NewRecorder()
	h.UpdateLine(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemoveLine_ReturnsServerSnapshot(t *testing.T) {
	empty := &domain.Cart{ID: "cart-123", TotalQuantity: 0, Lines: []domain.CartLine{}}
	remote := new(mockCommerceCart)
	remote.On("RemoveCartLines", mock.Anything, "cart-123", []string{"line-1"}).Return(empty, nil)
	h := newCartHandler(remote)

	req := postJSON("/api/v1/cart/remove", RemoveLineRequest{LineID: "line-1"})
	req.AddCookie(&http.Cookie{Name: session.CartCookie, Value: "cart-123"})
	rec := httptest.NewRecorder()
	h.RemoveLine(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	cart := data["cart"].(map[string]any)
	require.NotNil(t, cart, "empty cart is still a cart")
	assert.Equal(t, float64(0), cart["total_quantity"])
}
