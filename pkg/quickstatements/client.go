package quickstatements

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/biopragmatics/orcidsync/internal/transport"
	"github.com/biopragmatics/orcidsync/pkg/errors"
)

// DefaultEndpoint is the public QuickStatements batch API.
const DefaultEndpoint = "https://quickstatements.toolforge.org/api.php"

// Submitter posts a statement batch and returns a reference to it.
type Submitter interface {
	Post(ctx context.Context, lines []EntityLine, batchName string) (string, error)
}

// Client submits batches to the QuickStatements service.
type Client struct {
	transport *transport.Client
	endpoint  string
	token     string
	username  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTransport replaces the HTTP transport (used by tests).
func WithTransport(t *transport.Client) ClientOption {
	return func(c *Client) {
		c.transport = t
	}
}

// WithEndpoint overrides the batch API endpoint.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithCredentials sets the API token and username required for
// non-interactive submission.
func WithCredentials(username, token string) ClientOption {
	return func(c *Client) {
		c.username = username
		c.token = token
	}
}

// NewClient creates a QuickStatements client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		transport: transport.New(),
		endpoint:  DefaultEndpoint,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// postResponse is the batch API response envelope.
type postResponse struct {
	Status  string `json:"status"`
	BatchID int64  `json:"batch_id"`
	Error   string `json:"error,omitempty"`
}

// Post submits an ordered list of statements under a human-readable
// batch label and returns the batch URL.
func (c *Client) Post(ctx context.Context, lines []EntityLine, batchName string) (string, error) {
	if len(lines) == 0 {
		return "", errors.NewValidationError("lines", nil, "cannot submit an empty batch")
	}
	if batchName == "" {
		batchName = DefaultBatchName
	}

	form := url.Values{
		"action":    []string{"import"},
		"submit":    []string{"1"},
		"format":    []string{"v1"},
		"batchname": []string{batchName},
		"data":      []string{RenderLines(lines)},
	}
	if c.username != "" {
		form.Set("username", c.username)
	}
	if c.token != "" {
		form.Set("token", c.token)
	}

	resp, err := c.transport.PostForm(ctx, c.endpoint, form)
	if err != nil {
		return "", errors.WrapQuery(c.endpoint, 0, err)
	}

	var out postResponse
	if err := transport.DecodeResponse(resp, &out); err != nil {
		return "", err
	}
	if !strings.EqualFold(out.Status, "ok") {
		return "", errors.NewQueryError(c.endpoint, 0, out.Error)
	}

	return BatchURL(out.BatchID), nil
}

// BatchURL returns the human-visible URL of a submitted batch.
func BatchURL(batchID int64) string {
	return "https://quickstatements.toolforge.org/#/batch/" + strconv.FormatInt(batchID, 10)
}
