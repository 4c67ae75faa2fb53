package store

import (
	"context"
	"sync"

	"github.com/utafrali/storefront/internal/domain"
)

// CartStore holds at most one cart snapshot plus the drawer open flag. Every
// mutation replaces the whole snapshot with the server's response; there is
// no optimistic patching, and a failed mutation leaves the prior snapshot
// intact. Rapid-fire mutations race and the last response wins.
type CartStore struct {
	mu   sync.Mutex
	api  *Client
	cart *domain.Cart
	open bool
}

type cartData struct {
	Cart *domain.Cart `json:"cart"`
}

// NewCartStore creates a CartStore over the given API client.
func NewCartStore(api *Client) *CartStore {
	return &CartStore{api: api}
}

// Init loads the initial snapshot. With no cart cookie in the jar the nil
// snapshot is already correct and no request is made.
func (s *CartStore) Init(ctx context.Context) error {
	if !s.api.HasCartCookie() {
		return nil
	}
	return s.Refresh(ctx)
}

// Refresh replaces the snapshot with the server's current cart.
func (s *CartStore) Refresh(ctx context.Context) error {
	var data cartData
	if err := s.api.Get(ctx, "/api/v1/cart", &data); err != nil {
		return err
	}
	s.mu.Lock()
	s.cart = data.Cart
	s.mu.Unlock()
	return nil
}

// AddLine adds a variant to the cart and opens the drawer so the shopper
// sees the result.
func (s *CartStore) AddLine(ctx context.Context, variantID string, quantity int) error {
	var data cartData
	err := s.api.Post(ctx, "/api/v1/cart/add", map[string]any{
		"variant_id": variantID,
		"quantity":   quantity,
	}, &data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cart = data.Cart
	s.open = true
	s.mu.Unlock()
	return nil
}

// UpdateLine sets a line's quantity. Quantity 0 removes the line.
func (s *CartStore) UpdateLine(ctx context.Context, lineID string, quantity int) error {
	var data cartData
	err := s.api.Post(ctx, "/api/v1/cart/update", map[string]any{
		"line_id":  lineID,
		"quantity": quantity,
	}, &data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cart = data.Cart
	s.mu.Unlock()
	return nil
}

// RemoveLine deletes a line from the cart.
func (s *CartStore) RemoveLine(ctx context.Context, lineID string) error {
	var data cartData
	err := s.api.Post(ctx, "/api/v1/cart/remove", map[string]any{
		"line_id": lineID,
	}, &data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cart = data.Cart
	s.mu.Unlock()
	return nil
}

// Cart returns the current snapshot; nil means no cart.
func (s *CartStore) Cart() *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

// OpenDrawer shows the cart drawer.
func (s *CartStore) OpenDrawer() {
	s.mu.Lock()
	s.open = true
	s.mu.Unlock()
}

// CloseDrawer hides the cart drawer.
func (s *CartStore) CloseDrawer() {
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()
}

// DrawerOpen reports whether the drawer is showing.
func (s *CartStore) DrawerOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}
