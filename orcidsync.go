// Package orcidsync connects ontology contributor identifiers to
// Wikidata. It downloads OBO Graph JSON documents, extracts ORCID
// identifiers from their annotations, diffs them against the
// contributor statements already on Wikidata, and turns the gap into
// QuickStatements batches.
package orcidsync

import (
	"context"
	"path/filepath"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/biopragmatics/orcidsync/pkg/logging"
	"github.com/biopragmatics/orcidsync/pkg/obograph"
	"github.com/biopragmatics/orcidsync/pkg/prefixcache"
	"github.com/biopragmatics/orcidsync/pkg/quickstatements"
	"github.com/biopragmatics/orcidsync/pkg/reconcile"
	"github.com/biopragmatics/orcidsync/pkg/unresolved"
	"github.com/biopragmatics/orcidsync/pkg/wikidata"
)

// Submitter publishes a rendered batch of statements and returns a URL
// where the accepted batch can be inspected.
type Submitter interface {
	Post(ctx context.Context, lines []quickstatements.EntityLine, batchName string) (string, error)
}

// DefaultSkip lists namespaces excluded from full runs. These are the
// large taxonomies and ontologies whose contributor metadata is either
// absent or managed elsewhere.
var DefaultSkip = []string{"ncbitaxon", "gaz", "ncit", "chebi", "omit", "pr"}

// Pipeline drives the end-to-end update across ontology namespaces.
type Pipeline struct {
	config *config

	fetcher    obograph.Fetcher
	exec       wikidata.QueryExecutor
	submitter  Submitter
	scanner    *obograph.Scanner
	reconciler *reconcile.Reconciler
	cache      *prefixcache.Cache

	logger *zerolog.Logger
	now    func() utc.Time
}

// New creates a Pipeline with the given options. Without options it
// talks to the public SPARQL endpoint, the OBO PURL server, and the
// QuickStatements service, and keeps its data files in the current
// directory.
func New(opts ...Option) (*Pipeline, error) {
	c := defaultConfig()
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	p := &Pipeline{
		config:    c,
		fetcher:   c.fetcher,
		exec:      c.exec,
		submitter: c.submitter,
		logger:    c.logger,
		now:       c.now,
	}

	if p.exec == nil {
		p.exec = wikidata.NewClient()
	}
	if p.fetcher == nil {
		p.fetcher = obograph.NewClient()
	}
	if p.submitter == nil {
		p.submitter = quickstatements.NewClient()
	}
	if p.logger == nil {
		p.logger = logging.Default()
	}
	if p.now == nil {
		p.now = utc.Now
	}

	p.scanner = obograph.NewScanner(p.logger)
	p.reconciler = reconcile.New(p.exec, reconcile.WithLogger(p.logger))
	p.cache = prefixcache.New(
		filepath.Join(c.dataDir, prefixcache.DefaultFilename),
		p.exec,
		prefixcache.WithLogger(p.logger),
	)

	return p, nil
}

// Cache exposes the prefix-to-QID cache backing the pipeline.
func (p *Pipeline) Cache() *prefixcache.Cache {
	return p.cache
}

// UnresolvedPath returns the path of the unresolved-identifier store.
func (p *Pipeline) UnresolvedPath() string {
	return filepath.Join(p.config.dataDir, unresolved.DefaultFilename)
}
