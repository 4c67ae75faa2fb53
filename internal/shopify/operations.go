package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/utafrali/storefront/internal/domain"
)

// Typed operations over Client.Do. Each decodes the envelope into wire
// shapes and normalizes to domain types.

// decode unmarshals envelope data into out. GraphQL-level errors take
// precedence over whatever partial data came back.
func decode(env *Envelope, out any) error {
	if len(env.Errors) > 0 {
		return &GraphQLErrorsError{Errors: env.Errors}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode graphql data: %w", err)
	}
	return nil
}

// GraphQLErrorsError surfaces the platform's errors array as a Go error.
type GraphQLErrorsError struct {
	Errors []GraphQLError
}

func (e *GraphQLErrorsError) Error() string {
	if len(e.Errors) == 0 {
		return "graphql errors"
	}
	return "graphql error: " + e.Errors[0].Message
}

// --- cart ---

// GetCart fetches a cart by id. A nil cart with nil error means the platform
// no longer knows the id (expired or completed checkout).
func (c *Client) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	env, err := c.Do(ctx, queryCart, map[string]any{"cartId": cartID})
	if err != nil {
		return nil, err
	}
	var data struct {
		Cart *cartWire `json:"cart"`
	}
	if err := decode(env, &data); err != nil {
		return nil, err
	}
	if data.Cart == nil {
		return nil, nil
	}
	return data.Cart.toDomain(), nil
}

// CartLineInput seeds or extends a cart with a variant and quantity.
type CartLineInput struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// CartLineUpdateInput changes the quantity of an existing line.
type CartLineUpdateInput struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type cartMutationPayload struct {
	Cart       *cartWire   `json:"cart"`
	UserErrors []UserError `json:"userErrors"`
}

func (p cartMutationPayload) result() (*domain.Cart, error) {
	if len(p.UserErrors) > 0 {
		return nil, &UserErrorsError{Errors: p.UserErrors}
	}
	if p.Cart == nil {
		return nil, fmt.Errorf("mutation returned no cart")
	}
	return p.Cart.toDomain(), nil
}

// CreateCart creates a new cart seeded with the given lines.
func (c *Client) CreateCart(ctx context.Context, lines []CartLineInput) (*domain.Cart, error) {
	env, err := c.Do(ctx, mutationCartCreate, map[string]any{"lineItems": lines})
	if err != nil {
		return nil, err
	}
	var data struct {
		Payload cartMutationPayload `json:"cartCreate"`
	}
	if err := decode(env, &data); err != nil {
		return nil, err
	}
	return data.Payload.result()
}

// AddCartLines adds lines to an existing cart.
func (c *Client) AddCartLines(ctx context.Context, cartID string, lines []CartLineInput) (*domain.Cart, error) {
	env, err := c.Do(ctx, mutationCartLinesAdd, map[string]any{"cartId": cartID, "lines": lines})
	if err != nil {
		return nil, err
	}
	var data struct {
		Payload cartMutationPayload `json:"cartLinesAdd"`
	}
	if err := decode(env, &data); err != nil {
		return nil, err
	}
	return data.Payload.result()
}

// UpdateCartLines changes line quantities. Quantity 0 removes the line on the
// platform side.
func (c *Client) UpdateCartLines(ctx context.Context, cartID string, lines []CartLineUpdateInput) (*domain.Cart, error) {
	env, err := c.Do(ctx, mutationCartLinesUpdate, map[string]any{"cartId": cartID, "lines": lines})
	if err != nil {
		return nil, err
	}
	var data struct {
		Payload cartMutationPayload `json:"cartLinesUpdate"`
	}
	if err := decode(env, &data); err != nil {
		return nil, err
	}
	return data.Payload.result()
}

// RemoveCartLines deletes lines from the cart.
func (c *Client) RemoveCartLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error) {
	env, err := c.Do(ctx, mutationCartLinesRemove, map[string]any{"cartId": cartID, "lineIds": lineIDs})
	if err != nil {
		return nil, err
	}
	var data struct {
		Payload cartMutationPayload `json:"cartLinesRemove"`
	}
	if err := decode(env, &data); err != nil {
		return nil, err
	}
	return data.Payload.result()
}

// --- catalog ---

// GetProduct fetches a product by handle; nil when the handle is unknown.
func (c *Client) GetProduct(ctx context.Context, handle string) (*domain.Product, error) {
	env, err := c.Do(ctx, queryProduct, map[string]any{"handle": handle})
	if err != nil {
		return nil, err
	}
	var data struct {
		Product *productWire `json:"product"`
	}
	if err := decode(env, &data); err != nil {
		return nil, err
	}
	if data.Product == nil {
		return nil, nil
	}
	p := data.Product.toDomain()
	return &p, nil
}

// ProductQuery shapes a product listing or search request.
type ProductQuery struct {
	Query   string
	SortKey domain.ProductSortKey
	Reverse bool
	First   int
}

// GetProducts lists products, optionally filtered by a search query.
func (c *Client) GetProducts(ctx context.Context, q ProductQuery) ([]domain.Product, error) {
	if q.First <= 0 {
		q.First = 24
	}
	vars := map[string]any{
		"reverse": q.Reverse,
		"first":   q.First,
	}
	if q.SortKey != "" {
		vars["sortKey"] = string(q.SortKey)
	}
	if q.Query != "" {
		vars["query"] = q.Query
	}

	env, err := c.Do(ctx, queryProducts, vars)
	if err != nil {
		return nil, err
	}
	var data struct {
		Products connection[productWire] `json:"products"`
	}
	if err := decode(env, &data); err != nil {
		return nil, err
	}
	wires := data.Products.flatten()
	products := make([]domain.Product, 0, len(wires))
	for _, w := range wires {
		products = append(products, w.toDomain())
	}
	return products, nil
}

// GetProductRecommendations returns the platform's related products for a
// product id.
func (c *Client) GetProductRecommendations(ctx context.Context, productID string) ([]domain.Product, error) {
	env, err := c.Do(ctx, queryProductRecommendations, map[string]any{"productId": productID})
	if err != nil {
		return nil, err
	}
	var data struct {
		Recommendations []productWire `json:"productRecommendations"`
	}
	if err := decode(env, &data); err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(data.Recommendations))
	for _, w := range data.Recommendations {
		products = append(products, w.toDomain())
	}
	return products, nil
}

// GetCollections lists all collections.
func (c *Client) GetCollections(ctx context.Context) ([]domain.Collection, error) {
	env, err := c.Do(ctx, queryCollections, nil)
	if err != nil {
		return nil, err
	}
	var data struct {
		Collections connection[collectionWire] `json:"collections"`
	}
	if err := decode(env, &data); err != nil {
		return nil, err
	}
	wires := data.Collections.flatten()
	collections := make([]domain.Collection, 0, len(wires))
	for _, w := range wires {
		collections = append(collections, w.toDomain())
	}
	return collections, nil
}

// GetCollection fetches a collection by handle; nil when unknown.
func (c *Client) GetCollection(ctx context.Context, handle string) (*domain.Collection, error) {
	env, err := c.Do(ctx, queryCollection, map[string]any{"handle": handle})
	if err != nil {
		return nil, err
	}
	var data struct {
		Collection *collectionWire `json:"collection"`
	}
	if err := decode(env, &data); err != nil {
		return nil, err
	}
	if data.Collection == nil {
		return nil, nil
	}
	col := data.Collection.toDomain()
	return &col, nil
}

// GetCollectionProducts lists the products of a collection.
func (c *Client) GetCollectionProducts(ctx context.Context, handle string, sortKey domain.ProductSortKey, reverse bool) ([]domain.Product, error) {
	vars := map[string]any{
		"handle":  handle,
		"reverse": reverse,
	}
	if sortKey != "" {
		vars["sortKey"] = string(sortKey)
	}
	env, err := c.Do(ctx, queryCollectionProducts, vars)
	if err != nil {
		return nil, err
	}
	var data struct {
		Collection *struct {
			Products connection[productWire] `json:"products"`
		} `json:"collection"`
	}
	if err := decode(env, &data); err != nil {
		return nil, err
	}
	if data.Collection == nil {
		return nil, nil
	}
	wires := data.Collection.Products.flatten()
	products := make([]domain.Product, 0, len(wires))
	for _, w := range wires {
		products = append(products, w.toDomain())
	}
	return products, nil
}

// --- customer ---

// CustomerCreateInput is the registration payload.
type CustomerCreateInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// CustomerCreateResult carries the created customer id or the platform's
// validation errors.
type CustomerCreateResult struct {
	CustomerID string
	UserErrors []CustomerUserError
}

// CreateCustomer registers a new customer account.
func (c *Client) CreateCustomer(ctx context.Context, input CustomerCreateInput) (*CustomerCreateResult, error) {
	env, err := c.Do(ctx, mutationCustomerCreate, map[string]any{"input": input})
	if err != nil {
		return nil, err
	}
	var data struct {
		Payload struct {
			Customer *struct {
				ID string `json:"id"`
			} `json:"customer"`
			CustomerUserErrors []CustomerUserError `json:"customerUserErrors"`
		} `json:"customerCreate"`
	}
	if err := decode(env, &data); err != nil {
		return nil, err
	}
	result := &CustomerCreateResult{UserErrors: data.Payload.CustomerUserErrors}
	if data.Payload.Customer != nil {
		result.CustomerID = data.Payload.Customer.ID
	}
	return result, nil
}

// AccessTokenResult carries a created access token or the platform's
// credential errors.
type AccessTokenResult struct {
	Token      string
	ExpiresAt  time.Time
	UserErrors []CustomerUserError
}

// CreateAccessToken exchanges credentials for a customer access token.
func (c *Client) CreateAccessToken(ctx context.Context, email, password string) (*AccessTokenResult, error) {
	env, err := c.Do(ctx, mutationAccessTokenCreate, map[string]any{
		"input": map[string]string{"email": email, "password": password},
	})
	if err != nil {
		return nil, err
	}
	var data struct {
		Payload struct {
			Token *struct {
				AccessToken string    `json:"accessToken"`
				ExpiresAt   time.Time `json:"expiresAt"`
			} `json:"customerAccessToken"`
			CustomerUserErrors []CustomerUserError `json:"customerUserErrors"`
		} `json:"customerAccessTokenCreate"`
	}
	if err := decode(env, &data); err != nil {
		return nil, err
	}
	result := &AccessTokenResult{UserErrors: data.Payload.CustomerUserErrors}
	if data.Payload.Token != nil {
		result.Token = data.Payload.Token.AccessToken
		result.ExpiresAt = data.Payload.Token.ExpiresAt
	}
	return result, nil
}

// DeleteAccessToken revokes a customer access token.
func (c *Client) DeleteAccessToken(ctx context.Context, token string) error {
	env, err := c.Do(ctx, mutationAccessTokenDelete, map[string]any{"customerAccessToken": token})
	if err != nil {
		return err
	}
	var data struct {
		Payload struct {
			DeletedAccessToken string      `json:"deletedAccessToken"`
			UserErrors         []UserError `json:"userErrors"`
		} `json:"customerAccessTokenDelete"`
	}
	if err := decode(env, &data); err != nil {
		return err
	}
	if len(data.Payload.UserErrors) > 0 {
		return &UserErrorsError{Errors: data.Payload.UserErrors}
	}
	return nil
}

// GetCustomer fetches the customer behind an access token; nil when the
// platform rejects or no longer knows the token.
func (c *Client) GetCustomer(ctx context.Context, token string) (*domain.Customer, error) {
	env, err := c.Do(ctx, queryCustomer, map[string]any{"customerAccessToken": token})
	if err != nil {
		return nil, err
	}
	var data struct {
		Customer *customerWire `json:"customer"`
	}
	if err := decode(env, &data); err != nil {
		// An invalid token surfaces as a GraphQL error; the caller treats
		// that as signed out rather than a failure.
		var gqlErr *GraphQLErrorsError
		if errors.As(err, &gqlErr) {
			return nil, nil
		}
		return nil, err
	}
	if data.Customer == nil {
		return nil, nil
	}
	return data.Customer.toDomain(), nil
}
