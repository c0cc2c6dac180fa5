package wikidata

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"github.com/biopragmatics/orcidsync/internal/transport"
	"github.com/biopragmatics/orcidsync/pkg/errors"
	"github.com/biopragmatics/orcidsync/pkg/orcid"
)

// Record is one SPARQL result row with values unwrapped to plain strings.
type Record map[string]string

// QueryExecutor runs a SPARQL select query and returns unwrapped rows.
// The reconciler and prefix cache depend on this interface rather than
// the concrete client so tests can use canned responses.
type QueryExecutor interface {
	Select(ctx context.Context, query string) ([]Record, error)
}

// Contributor is a person record resolved from the authoritative source.
type Contributor struct {
	ORCID       orcid.ID `json:"orcid"`
	QID         string   `json:"qid"`
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
}

// Client queries the Wikidata Query Service.
type Client struct {
	transport *transport.Client
	endpoint  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTransport replaces the HTTP transport (used by tests).
func WithTransport(t *transport.Client) ClientOption {
	return func(c *Client) {
		c.transport = t
	}
}

// WithEndpoint overrides the SPARQL endpoint URL.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// NewClient creates a Wikidata Query Service client.
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

// sparqlResponse is the SPARQL 1.1 JSON results envelope.
type sparqlResponse struct {
	Results struct {
		Bindings []map[string]struct {
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

// Select runs a query and unwraps each binding to a plain string record.
func (c *Client) Select(ctx context.Context, query string) ([]Record, error) {
	params := url.Values{
		"query":  []string{query},
		"format": []string{"json"},
	}

	resp, err := c.transport.GetWithParams(ctx, c.endpoint, params, "application/sparql-results+json")
	if err != nil {
		return nil, errors.WrapQuery(c.endpoint, 0, err)
	}

	var envelope sparqlResponse
	if err := transport.DecodeResponse(resp, &envelope); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(envelope.Results.Bindings))
	for _, binding := range envelope.Results.Bindings {
		record := make(Record, len(binding))
		for name, cell := range binding {
			record[name] = cell.Value
		}
		records = append(records, record)
	}
	return records, nil
}

// ExistingAnnotations returns the set of ORCID iDs already linked to
// the ontology item through contributor statements.
func ExistingAnnotations(ctx context.Context, exec QueryExecutor, ontologyQID string) (map[orcid.ID]bool, error) {
	records, err := exec.Select(ctx, ExistingAnnotationsQuery(ontologyQID))
	if err != nil {
		return nil, err
	}

	annotated := make(map[orcid.ID]bool, len(records))
	for _, record := range records {
		if v := record["orcid"]; v != "" {
			annotated[orcid.ID(v)] = true
		}
	}
	return annotated, nil
}

// ResolveContributors resolves candidate ORCID iDs to contributor
// records in a single batched query. Identifiers with no matching item
// are simply absent from the result; callers treat those as unresolved.
func ResolveContributors(ctx context.Context, exec QueryExecutor, ids []orcid.ID) ([]Contributor, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	records, err := exec.Select(ctx, ResolveQuery(ids))
	if err != nil {
		return nil, err
	}

	contributors := make([]Contributor, 0, len(records))
	for _, record := range records {
		id := orcid.ID(record["orcid"])
		qid := strings.TrimPrefix(record["contributor"], EntityURIPrefix)
		if id == "" || qid == "" {
			continue
		}
		contributors = append(contributors, Contributor{
			ORCID:       id,
			QID:         qid,
			Label:       record["contributorLabel"],
			Description: record["contributorDescription"],
		})
	}

	sort.Slice(contributors, func(i, j int) bool {
		return contributors[i].ORCID < contributors[j].ORCID
	})
	return contributors, nil
}

// PrefixIndex returns the full namespace-prefix to ontology-QID mapping
// in one bulk query.
func PrefixIndex(ctx context.Context, exec QueryExecutor) (map[string]string, error) {
	records, err := exec.Select(ctx, PrefixIndexQuery())
	if err != nil {
		return nil, err
	}

	index := make(map[string]string, len(records))
	for _, record := range records {
		prefix := record["prefix"]
		qid := strings.TrimPrefix(record["ontology"], EntityURIPrefix)
		if prefix == "" || qid == "" {
			continue
		}
		index[prefix] = qid
	}
	return index, nil
}
