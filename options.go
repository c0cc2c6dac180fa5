package orcidsync

import (
	"fmt"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/biopragmatics/orcidsync/pkg/obograph"
	"github.com/biopragmatics/orcidsync/pkg/wikidata"
)

// Option is a function that configures a Pipeline.
type Option func(*config) error

type config struct {
	dataDir   string
	workers   int
	dryRun    bool
	skip      map[string]bool
	fetcher   obograph.Fetcher
	exec      wikidata.QueryExecutor
	submitter Submitter
	logger    *zerolog.Logger
	now       func() utc.Time
}

func defaultConfig() *config {
	skip := make(map[string]bool, len(DefaultSkip))
	for _, prefix := range DefaultSkip {
		skip[prefix] = true
	}
	return &config{
		dataDir: ".",
		workers: 1,
		skip:    skip,
	}
}

// WithDataDir sets the directory holding the prefix cache and the
// unresolved-identifier store.
func WithDataDir(dir string) Option {
	return func(c *config) error {
		if dir != "" {
			c.dataDir = dir
		}
		return nil
	}
}

// WithWorkers sets how many namespaces are processed concurrently.
func WithWorkers(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return fmt.Errorf("workers must be at least 1, got %d", n)
		}
		c.workers = n
		return nil
	}
}

// WithDryRun configures whether batches are rendered without being
// submitted.
func WithDryRun(enabled bool) Option {
	return func(c *config) error {
		c.dryRun = enabled
		return nil
	}
}

// WithSkip replaces the default namespace skip list.
func WithSkip(prefixes ...string) Option {
	return func(c *config) error {
		c.skip = make(map[string]bool, len(prefixes))
		for _, prefix := range prefixes {
			c.skip[prefix] = true
		}
		return nil
	}
}

// WithFetcher sets the graph document source.
func WithFetcher(fetcher obograph.Fetcher) Option {
	return func(c *config) error {
		c.fetcher = fetcher
		return nil
	}
}

// WithQueryExecutor sets the SPARQL query executor.
func WithQueryExecutor(exec wikidata.QueryExecutor) Option {
	return func(c *config) error {
		c.exec = exec
		return nil
	}
}

// WithSubmitter sets the batch submission client.
func WithSubmitter(submitter Submitter) Option {
	return func(c *config) error {
		c.submitter = submitter
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithClock sets the time source used for retrieval qualifiers.
func WithClock(now func() utc.Time) Option {
	return func(c *config) error {
		c.now = now
		return nil
	}
}
