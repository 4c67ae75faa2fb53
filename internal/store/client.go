// Package store holds the client-side state for a storefront UI session: one
// cart snapshot, one customer snapshot, a debounced search box, and the
// activation page's state machine. Stores are plain dependency-injected
// values built once at startup; there are no package-level singletons.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/utafrali/storefront/internal/session"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httpclient"
)

// Client talks to the storefront's own HTTP surface. Its cookie jar carries
// the cart id and access token between calls, the way a browser would.
type Client struct {
	http    *httpclient.Client
	jar     http.CookieJar
	baseURL *url.URL
}

// NewClient creates a Client for the given base URL (e.g. "http://localhost:8080").
func NewClient(baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	pooled := httpclient.New(httpclient.DefaultConfig())
	pooled.SetJar(jar)

	return &Client{http: pooled, jar: jar, baseURL: u}, nil
}

// envelope mirrors the server's response format.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

// HasCartCookie reports whether the jar currently holds a cart id.
func (c *Client) HasCartCookie() bool {
	return c.hasCookie(session.CartCookie)
}

// HasTokenCookie reports whether the jar currently holds an access token.
func (c *Client) HasTokenCookie() bool {
	return c.hasCookie(session.TokenCookie)
}

func (c *Client) hasCookie(name string) bool {
	for _, ck := range c.jar.Cookies(c.baseURL) {
		if ck.Name == name && ck.Value != "" {
			return true
		}
	}
	return false
}

// Get issues a GET against the API surface and decodes the data envelope
// into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.JoinPath(path).String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(ctx, req, out)
}

// GetQuery is Get with URL query parameters.
func (c *Client) GetQuery(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL.JoinPath(path)
	u.RawQuery = query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(ctx, req, out)
}

// Post issues a JSON POST against the API surface and decodes the data
// envelope into out. A nil body sends an empty request.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.JoinPath(path).String(), &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(ctx, req, out)
}

func (c *Client) do(ctx context.Context, req *http.Request, out any) error {
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("api request: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode api response: %w", err)
	}

	if env.Error != nil {
		return apperrors.New(env.Error.Code, env.Error.Message, resp.StatusCode, nil)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode api data: %w", err)
		}
	}
	return nil
}
