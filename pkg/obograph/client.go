package obograph

import (
	"context"

	"github.com/biopragmatics/orcidsync/internal/transport"
	"github.com/biopragmatics/orcidsync/pkg/errors"
)

// Fetcher retrieves the graph document for an ontology namespace.
// Implementations must be safe for concurrent use.
type Fetcher interface {
	FetchByPrefix(ctx context.Context, prefix string) (*Document, error)
}

// Client fetches OBO Graph JSON documents from the OBO PURL server.
type Client struct {
	transport *transport.Client
	baseURL   string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTransport replaces the HTTP transport (used by tests).
func WithTransport(t *transport.Client) ClientOption {
	return func(c *Client) {
		c.transport = t
	}
}

// WithBaseURL overrides the PURL base URL (used by tests).
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		c.baseURL = base
	}
}

// NewClient creates a graph document client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		transport: transport.New(),
		baseURL:   PURLBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchByPrefix downloads and decodes the graph document for a
// namespace prefix. Failures are wrapped as NamespaceErrors so callers
// can skip the namespace and continue.
func (c *Client) FetchByPrefix(ctx context.Context, prefix string) (*Document, error) {
	url := c.baseURL + "/" + prefix + ".json"

	resp, err := c.transport.Get(ctx, url)
	if err != nil {
		return nil, errors.WrapNamespace(prefix, "fetch", err)
	}

	var doc Document
	if err := transport.DecodeResponse(resp, &doc); err != nil {
		return nil, errors.WrapNamespace(prefix, "fetch", err)
	}

	if len(doc.Graphs) == 0 {
		return nil, errors.WrapNamespace(prefix, "fetch", errors.ErrNoGraphs)
	}

	return &doc, nil
}
