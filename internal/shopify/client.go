package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// defaultRetryDelay is used when a 429 response carries no usable
// Retry-After header.
const defaultRetryDelay = 2 * time.Second

// Config holds the remote commerce endpoint settings.
type Config struct {
	// StoreDomain is the shop's myshopify domain, e.g. "acme.myshopify.com".
	StoreDomain string

	// AccessToken is the storefront API access token sent with every request.
	AccessToken string

	// APIVersion selects the GraphQL API version, e.g. "2024-10".
	APIVersion string

	// MaxRetries bounds how many times a throttled (429) request is re-issued.
	MaxRetries int
}

// GraphQLError is one entry of the platform's errors array.
type GraphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

// Envelope is the raw GraphQL response. Data and Errors can both be set:
// the platform returns partial data alongside errors.
type Envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// httpDoer is the transport contract, satisfied by
// httpclient.CircuitBreakerClient.
type httpDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client speaks the commerce platform's GraphQL API. All higher-level
// operations funnel through Do.
type Client struct {
	http     httpDoer
	endpoint string
	token    string
	retries  int
	logger   *slog.Logger

	// sleep is context-aware and injectable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient builds a Client against the configured store.
func NewClient(cfg Config, doer httpDoer, logger *slog.Logger) *Client {
	version := cfg.APIVersion
	if version == "" {
		version = "2024-10"
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 3
	}
	return &Client{
		http:     doer,
		endpoint: fmt.Sprintf("https://%s/api/%s/graphql.json", cfg.StoreDomain, version),
		token:    cfg.AccessToken,
		retries:  retries,
		logger:   logger,
		sleep:    sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do executes one GraphQL operation. Throttled responses (429) are retried
// after the server-specified delay up to the configured bound; server errors
// and transport failures surface immediately. GraphQL-level errors are logged
// and returned in the envelope for the caller to inspect.
func (c *Client) Do(ctx context.Context, query string, variables map[string]any) (*Envelope, error) {
	payload, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal graphql request: %w", err)
	}

	for attempt := 0; ; attempt++ {
		resp, err := c.send(ctx, payload)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			c.logger.Error("commerce platform request failed",
				slog.String("error", err.Error()),
			)
			return nil, apperrors.Unavailable("commerce platform unreachable")
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			delay := retryDelay(resp.Header.Get("Retry-After"))
			drain(resp)

			if attempt+1 >= c.retries {
				c.logger.Warn("throttled by commerce platform, retries exhausted",
					slog.Int("attempts", attempt+1),
				)
				return nil, apperrors.Unavailable("commerce platform throttling persisted")
			}

			c.logger.Debug("throttled by commerce platform, retrying",
				slog.Duration("delay", delay),
				slog.Int("attempt", attempt+1),
			)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			drain(resp)
			c.logger.Error("unexpected status from commerce platform",
				slog.Int("status", resp.StatusCode),
				slog.String("body", string(body)),
			)
			return nil, apperrors.New("REMOTE_ERROR",
				fmt.Sprintf("unexpected status %d from commerce platform", resp.StatusCode),
				resp.StatusCode, apperrors.ErrRemote)
		}

		var env Envelope
		err = json.NewDecoder(resp.Body).Decode(&env)
		drain(resp)
		if err != nil {
			return nil, fmt.Errorf("decode graphql response: %w", err)
		}

		if len(env.Errors) > 0 {
			c.logger.Warn("graphql errors in response",
				slog.String("first_message", env.Errors[0].Message),
				slog.Int("count", len(env.Errors)),
			)
		}
		return &env, nil
	}
}

func (c *Client) send(ctx context.Context, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.token)
	return c.http.Do(ctx, req)
}

// retryDelay parses a Retry-After value in seconds, falling back to the
// platform's documented 2 second default.
func retryDelay(header string) time.Duration {
	if header == "" {
		return defaultRetryDelay
	}
	secs, err := strconv.ParseFloat(header, 64)
	if err != nil || secs <= 0 {
		return defaultRetryDelay
	}
	return time.Duration(secs * float64(time.Second))
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()
}
