// Package transport provides HTTP client functionality shared by the
// remote collaborators (SPARQL endpoint, OBO PURL server, batch service).
package transport

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/biopragmatics/orcidsync/pkg/errors"
)

// DefaultHTTPTimeout bounds every remote call; the SPARQL endpoint
// enforces a 60s server-side limit, so anything longer just wastes a slot.
var DefaultHTTPTimeout = 60 * time.Second

// DefaultUserAgent identifies this tool to remote services, per the
// Wikimedia User-Agent policy.
const DefaultUserAgent = "orcidsync/1.0 (https://github.com/biopragmatics/orcidsync)"

// Client provides HTTP client functionality with common headers applied.
type Client struct {
	http      *http.Client
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a new transport client.
func New(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: DefaultHTTPTimeout},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do performs an HTTP request with common headers applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	return c.http.Do(req)
}

// Get performs a GET request against the given URL.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.WrapQuery(rawURL, 0, err)
	}
	return c.Do(req)
}

// GetWithParams performs a GET request with URL query parameters and an
// explicit Accept header.
func (c *Client) GetWithParams(ctx context.Context, rawURL string, params url.Values, accept string) (*http.Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.WrapQuery(rawURL, 0, err)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.WrapQuery(rawURL, 0, err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	return c.Do(req)
}

// PostForm performs a POST request with form-encoded body.
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.WrapQuery(rawURL, 0, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.Do(req)
}

// ReadBody drains and closes a response body, converting a 404 into a
// NotFoundError and any other non-2xx status into a QueryError.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close() //nolint:errcheck // best effort close after read

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		endpoint := ""
		requested := ""
		if resp.Request != nil && resp.Request.URL != nil {
			endpoint = resp.Request.URL.Host
			requested = resp.Request.URL.String()
		}
		if resp.StatusCode == http.StatusNotFound {
			return nil, errors.NewNotFoundError("resource", requested)
		}
		return nil, &errors.QueryError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	return body, nil
}
