package obograph

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/biopragmatics/orcidsync/pkg/logging"
	"github.com/biopragmatics/orcidsync/pkg/orcid"
)

// Scanner filters graph nodes to a target namespace and aggregates the
// identifiers its walker extracts from each matching node's subtree.
type Scanner struct {
	walker *orcid.Walker
	logger *zerolog.Logger
}

// NewScanner creates a Scanner. A nil logger falls back to the default.
func NewScanner(logger *zerolog.Logger) *Scanner {
	if logger == nil {
		logger = logging.Default()
	}
	return &Scanner{
		walker: orcid.NewWalker(logger),
		logger: logger,
	}
}

// Scan returns occurrence counts of canonical identifiers found in
// nodes whose id starts with the namespace's URI prefix. A node
// carrying the same identifier in several fields contributes one
// occurrence per field. An absent or empty document yields an empty
// map and a warning, never an error, so one bad namespace cannot
// abort the rest of a run.
func (s *Scanner) Scan(doc *Document, prefix string) map[orcid.ID]int {
	counts := make(map[orcid.ID]int)

	if doc == nil || len(doc.Graphs) == 0 {
		s.logger.Warn().Str("prefix", prefix).Msg("no graphs in document")
		return counts
	}

	uriPrefix := URIPrefix(prefix)
	for _, graph := range doc.Graphs {
		for _, node := range graph.Nodes {
			if !strings.HasPrefix(node.ID(), uriPrefix) {
				continue
			}
			for _, id := range s.walker.Extract(orcid.FromValue(map[string]any(node))) {
				counts[id]++
			}
		}
	}

	return counts
}
