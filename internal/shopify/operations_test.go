package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cartJSON = `{
  "cart": {
    "id": "gid://shopify/Cart/abc",
    "checkoutUrl": "https://acme.myshopify.com/checkout/abc",
    "totalQuantity": 3,
    "cost": {
      "subtotalAmount": {"amount": "55.00", "currencyCode": "USD"},
      "totalAmount": {"amount": "60.50", "currencyCode": "USD"},
      "totalTaxAmount": {"amount": "5.50", "currencyCode": "USD"}
    },
    "lines": {
      "edges": [
        {"node": {
          "id": "line-1",
          "quantity": 2,
          "cost": {"totalAmount": {"amount": "40.00", "currencyCode": "USD"}},
          "merchandise": {
            "id": "gid://shopify/ProductVariant/1",
            "title": "M / Black",
            "selectedOptions": [{"name": "Size", "value": "M"}],
            "product": {
              "id": "gid://shopify/Product/1",
              "handle": "tee",
              "title": "Tee",
              "featuredImage": {"url": "https://cdn/tee.jpg", "altText": "tee", "width": 100, "height": 100}
            }
          }
        }},
        {"node": {
          "id": "line-2",
          "quantity": 1,
          "cost": {"totalAmount": {"amount": "20.50", "currencyCode": "USD"}},
          "merchandise": {
            "id": "gid://shopify/ProductVariant/2",
            "title": "Default",
            "selectedOptions": [],
            "product": {
              "id": "gid://shopify/Product/2",
              "handle": "mug",
              "title": "Mug",
              "featuredImage": null
            }
          }
        }}
      ]
    }
  }
}`

func TestGetCart_FlattensLines(t *testing.T) {
	doer := &scriptedDoer{responses: []*http.Response{
		response(http.StatusOK, `{"data":`+cartJSON+`}`, nil),
	}}
	c := newTestClient(doer)

	cart, err := c.GetCart(context.Background(), "gid://shopify/Cart/abc")
	require.NoError(t, err)
	require.NotNil(t, cart)

	assert.Equal(t, "gid://shopify/Cart/abc", cart.ID)
	assert.Equal(t, "https://acme.myshopify.com/checkout/abc", cart.CheckoutURL)
	assert.Equal(t, 3, cart.TotalQuantity)
	assert.Equal(t, "60.50", cart.Cost.TotalAmount.Amount)

	require.Len(t, cart.Lines, 2)
	assert.Equal(t, "line-1", cart.Lines[0].ID)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, "tee", cart.Lines[0].Merchandise.ProductHandle)
	require.NotNil(t, cart.Lines[0].Merchandise.FeaturedImage)
	assert.Equal(t, "line-2", cart.Lines[1].ID)
	assert.Nil(t, cart.Lines[1].Merchandise.FeaturedImage)
}

func TestGetCart_NullCartMeansGone(t *testing.T) {
	doer := &scriptedDoer{responses: []*http.Response{
		response(http.StatusOK, `{"data":{"cart":null}}`, nil),
	}}
	c := newTestClient(doer)

	cart, err := c.GetCart(context.Background(), "gid://shopify/Cart/stale")
	require.NoError(t, err)
	assert.Nil(t, cart)
}

func TestAddCartLines_UserErrorsBecomeError(t *testing.T) {
	body := `{"data":{"cartLinesAdd":{"cart":null,"userErrors":[{"field":["lines"],"message":"Variant is sold out"}]}}}`
	doer := &scriptedDoer{responses: []*http.Response{
		response(http.StatusOK, body, nil),
	}}
	c := newTestClient(doer)

	_, err := c.AddCartLines(context.Background(), "cart-1", []CartLineInput{{MerchandiseID: "v1", Quantity: 1}})
	require.Error(t, err)

	var ueErr *UserErrorsError
	require.ErrorAs(t, err, &ueErr)
	assert.Contains(t, ueErr.Error(), "Variant is sold out")
}

func TestCreateAccessToken_CarriesUserErrorCodes(t *testing.T) {
	body := `{"data":{"customerAccessTokenCreate":{"customerAccessToken":null,"customerUserErrors":[{"code":"UNIDENTIFIED_CUSTOMER","field":null,"message":"Unidentified customer"}]}}}`
	doer := &scriptedDoer{responses: []*http.Response{
		response(http.StatusOK, body, nil),
	}}
	c := newTestClient(doer)

	result, err := c.CreateAccessToken(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Empty(t, result.Token)
	require.Len(t, result.UserErrors, 1)
	assert.Equal(t, "UNIDENTIFIED_CUSTOMER", result.UserErrors[0].Code)
}

func TestGetCustomer_InvalidTokenIsSignedOut(t *testing.T) {
	body := `{"data":null,"errors":[{"message":"Invalid access token"}]}`
	doer := &scriptedDoer{responses: []*http.Response{
		response(http.StatusOK, body, nil),
	}}
	c := newTestClient(doer)

	customer, err := c.GetCustomer(context.Background(), "expired")
	require.NoError(t, err)
	assert.Nil(t, customer)
}

func TestGetProducts_DefaultsPageSize(t *testing.T) {
	doer := &scriptedDoer{responses: []*http.Response{
		response(http.StatusOK, `{"data":{"products":{"edges":[]}}}`, nil),
	}}
	c := newTestClient(doer)

	products, err := c.GetProducts(context.Background(), ProductQuery{})
	require.NoError(t, err)
	assert.Empty(t, products)

	var sent struct {
		Variables map[string]any `json:"variables"`
	}
	req := doer.requests[0]
	require.NoError(t, json.NewDecoder(req.Body).Decode(&sent))
	assert.EqualValues(t, 24, sent.Variables["first"])
}
