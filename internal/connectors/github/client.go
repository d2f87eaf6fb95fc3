package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/ghmirror/internal/core/ports/driven"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Ensure Client implements the fetcher port.
var _ driven.RemoteFetcher = (*Client)(nil)

// Client fetches JSON payloads from the remote API through a
// fixed-window rate limiter. URLs are absolute and built by the
// engine from the configured base URLs, so a single client serves
// both the current and the legacy API surface.
type Client struct {
	gh      *gh.Client
	limiter *RateLimiter
}

// NewClient creates an unauthenticated client.
func NewClient(limiter *RateLimiter) *Client {
	httpClient := &http.Client{Timeout: DefaultTimeout}
	return &Client{
		gh:      gh.NewClient(httpClient),
		limiter: limiter,
	}
}

// NewClientWithToken creates a client authenticated with a static
// access token. Works for both PAT and OAuth access tokens.
func NewClientWithToken(ctx context.Context, token string, limiter *RateLimiter) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	return &Client{
		gh:      gh.NewClient(tc),
		limiter: limiter,
	}
}

// NewClientWithHTTPClient creates a client with a custom http.Client.
// Useful for tests pointing at a local fixture server.
func NewClientWithHTTPClient(httpClient *http.Client, limiter *RateLimiter) *Client {
	return &Client{
		gh:      gh.NewClient(httpClient),
		limiter: limiter,
	}
}

// RateLimiter returns the limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.limiter
}

// Fetch issues a GET against url and returns the parsed JSON object.
//
// Expected-absence statuses are converted into a synthetic
// {"error": <reason>} payload; see the package documentation for the
// full classification.
func (c *Client) Fetch(ctx context.Context, url string) (map[string]any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := c.gh.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", url, err)
	}

	var payload map[string]any
	resp, err := c.gh.Do(ctx, req, &payload)
	if err != nil {
		if resp != nil {
			if reason, handled := expectedAbsence(resp.StatusCode); handled {
				return map[string]any{"error": reason}, nil
			}
		}
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	return payload, nil
}

// expectedAbsence reports whether the remote models status as a normal
// response, and if so returns the reason phrase used for the synthetic
// error payload.
func expectedAbsence(status int) (string, bool) {
	switch status {
	case http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusForbidden,
		http.StatusNotFound,
		http.StatusUnprocessableEntity:
		return http.StatusText(status), true
	}
	return "", false
}
