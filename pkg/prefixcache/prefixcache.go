// Package prefixcache persists the mapping from ontology namespace
// prefix to its backing Wikidata item. The whole mapping is fetched in
// one bulk query the first time it is needed and reused across runs
// until the cache file is deleted or explicitly refreshed; staleness
// across runs is an accepted tradeoff.
package prefixcache

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/biopragmatics/orcidsync/pkg/errors"
	"github.com/biopragmatics/orcidsync/pkg/logging"
	"github.com/biopragmatics/orcidsync/pkg/wikidata"
)

// DefaultFilename is the cache file name inside the data directory.
const DefaultFilename = "prefixes.json"

const filePermissions = 0o644

// Cache is the persisted prefix-to-QID repository. Load it once per
// run; lookups afterwards are pure in-memory reads.
type Cache struct {
	path   string
	exec   wikidata.QueryExecutor
	logger *zerolog.Logger

	mu     sync.RWMutex
	index  map[string]string
	loaded bool
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Cache persisted at path and populated, when missing,
// through the given query executor.
func New(path string, exec wikidata.QueryExecutor, opts ...Option) *Cache {
	c := &Cache{
		path:   path,
		exec:   exec,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load reads the cache file, or populates it with one bulk query when
// the file is absent. A population failure is fatal for the run: no
// reconciliation can proceed without the prefix mapping.
func (c *Cache) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return nil
	}

	data, err := os.ReadFile(c.path)
	switch {
	case err == nil:
		index := make(map[string]string)
		if err := json.Unmarshal(data, &index); err != nil {
			return errors.NewCacheError("load", c.path, errors.WrapParse("json", c.path, err))
		}
		c.index = index
		c.loaded = true
		c.logger.Debug().Int("prefixes", len(index)).Str("path", c.path).Msg("prefix cache loaded")
		return nil
	case os.IsNotExist(err):
		return c.populate(ctx)
	default:
		return errors.NewCacheError("load", c.path, err)
	}
}

// Refresh discards the persisted mapping and re-runs the bulk query.
func (c *Cache) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.populate(ctx)
}

// populate runs the bulk query and persists the result. Callers hold mu.
func (c *Cache) populate(ctx context.Context) error {
	c.logger.Info().Str("path", c.path).Msg("populating prefix cache")

	index, err := wikidata.PrefixIndex(ctx, c.exec)
	if err != nil {
		return errors.NewCacheError("populate", c.path, err)
	}

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return errors.NewCacheError("save", c.path, err)
	}
	if err := os.WriteFile(c.path, append(data, '\n'), filePermissions); err != nil {
		return errors.NewCacheError("save", c.path, err)
	}

	c.index = index
	c.loaded = true
	c.logger.Info().Int("prefixes", len(index)).Msg("prefix cache populated")
	return nil
}

// QID returns the backing item for a namespace prefix. The second
// return value is false when the prefix has no known item.
func (c *Cache) QID(prefix string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	qid, ok := c.index[prefix]
	return qid, ok
}

// Prefixes returns every cached namespace prefix, sorted.
func (c *Cache) Prefixes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	prefixes := make([]string, 0, len(c.index))
	for prefix := range c.index {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)
	return prefixes
}

// Len returns the number of cached prefixes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.index)
}
