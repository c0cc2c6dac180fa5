package orcid

import (
	"github.com/rs/zerolog"

	"github.com/biopragmatics/orcidsync/pkg/logging"
)

// Walker extracts canonical identifiers from an arbitrarily nested node
// tree. It never fails: malformed candidates are silently excluded and
// unrecognized shapes are logged and skipped.
type Walker struct {
	logger *zerolog.Logger
}

// NewWalker creates a Walker. A nil logger falls back to the default.
func NewWalker(logger *zerolog.Logger) *Walker {
	if logger == nil {
		logger = logging.Default()
	}
	return &Walker{logger: logger}
}

// Extract walks the tree and returns every canonical identifier found
// in string leaves, in deterministic traversal order. The result may
// contain duplicates; callers that need occurrence counts aggregate.
func (w *Walker) Extract(n Node) []ID {
	var out []ID
	w.extract(n, &out)
	return out
}

func (w *Walker) extract(n Node, out *[]ID) {
	switch n.Kind() {
	case KindString:
		if id, ok := Normalize(n.StringValue()); ok {
			*out = append(*out, id)
		}
	case KindSequence, KindMapping:
		for _, child := range n.Children() {
			w.extract(child, out)
		}
	case KindNull, KindNumber, KindBool:
		// nothing to extract
	default:
		w.logger.Warn().
			Str("shape", describe(n.Raw())).
			Msg("unhandled node shape, skipping")
	}
}

// Count walks the tree and aggregates identifier occurrences. A single
// identifier appearing in several fields of one node counts once per
// appearance.
func (w *Walker) Count(n Node) map[ID]int {
	counts := make(map[ID]int)
	for _, id := range w.Extract(n) {
		counts[id]++
	}
	return counts
}
