package store

import (
	"context"
	"sync"

	"github.com/utafrali/storefront/internal/domain"
)

// AuthStore tracks the signed-in customer. The session cookie itself lives in
// the client's jar; this store caches the customer snapshot the server
// resolved from it.
type AuthStore struct {
	mu       sync.Mutex
	api      *Client
	customer *domain.Customer
}

type customerData struct {
	Customer *domain.Customer `json:"customer"`
}

type authData struct {
	Authenticated bool   `json:"authenticated"`
	Message       string `json:"message"`
}

// NewAuthStore creates an AuthStore over the given API client.
func NewAuthStore(api *Client) *AuthStore {
	return &AuthStore{api: api}
}

// Init resolves the current session. Without a token cookie the signed-out
// state is already correct and no request is made.
func (s *AuthStore) Init(ctx context.Context) error {
	if !s.api.HasTokenCookie() {
		return nil
	}
	return s.Refresh(ctx)
}

// Refresh re-resolves the customer from the session cookie. The endpoint
// degrades to a null customer rather than failing, so a transport error here
// leaves the prior snapshot in place.
func (s *AuthStore) Refresh(ctx context.Context) error {
	var data customerData
	if err := s.api.Get(ctx, "/api/v1/auth/me", &data); err != nil {
		return err
	}
	s.mu.Lock()
	s.customer = data.Customer
	s.mu.Unlock()
	return nil
}

// Login exchanges credentials for a session cookie, then resolves the
// customer.
func (s *AuthStore) Login(ctx context.Context, email, password string) error {
	var data authData
	err := s.api.Post(ctx, "/api/v1/auth/login", map[string]any{
		"email":    email,
		"password": password,
	}, &data)
	if err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Register creates an account. When activation is required the server
// returns no session cookie and the returned message tells the shopper to
// check their email; otherwise the new session is resolved immediately.
func (s *AuthStore) Register(ctx context.Context, email, password, firstName, lastName string) (string, error) {
	var data authData
	err := s.api.Post(ctx, "/api/v1/auth/register", map[string]any{
		"email":      email,
		"password":   password,
		"first_name": firstName,
		"last_name":  lastName,
	}, &data)
	if err != nil {
		return "", err
	}
	if !data.Authenticated {
		return data.Message, nil
	}
	return data.Message, s.Refresh(ctx)
}

// Logout ends the session. The local snapshot is cleared even when the
// request fails; the server clears the cookie unconditionally as well.
func (s *AuthStore) Logout(ctx context.Context) error {
	err := s.api.Post(ctx, "/api/v1/auth/logout", nil, nil)
	s.mu.Lock()
	s.customer = nil
	s.mu.Unlock()
	return err
}

// Customer returns the current snapshot; nil means signed out.
func (s *AuthStore) Customer() *domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customer
}

// SignedIn reports whether a customer snapshot is present.
func (s *AuthStore) SignedIn() bool {
	return s.Customer() != nil
}
