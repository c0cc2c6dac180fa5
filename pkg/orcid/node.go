package orcid

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Kind tags the runtime shape of a graph data node.
type Kind int

const (
	// KindNull is an absent value.
	KindNull Kind = iota
	// KindString is a string leaf, the only shape that can carry an identifier.
	KindString
	// KindNumber is a numeric leaf.
	KindNumber
	// KindBool is a boolean leaf.
	KindBool
	// KindSequence is an ordered collection of child nodes.
	KindSequence
	// KindMapping is a key-value collection; keys never carry identifiers.
	KindMapping
	// KindUnknown is any shape the decoder does not recognize. Walkers
	// surface it as a diagnostic and skip it.
	KindUnknown
)

// String returns a human-readable kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Node is a tagged variant over the shapes found in semi-structured
// graph documents. Building the tree up front keeps the traversal total:
// every shape lands in exactly one case, and anything else is KindUnknown.
type Node struct {
	kind Kind
	str  string
	seq  []Node
	keys []string // sorted mapping keys, for deterministic traversal
	vals map[string]Node
	raw  any // original value, kept for KindUnknown diagnostics
}

// Kind returns the node's shape tag.
func (n Node) Kind() Kind {
	return n.kind
}

// StringValue returns the payload of a string node.
func (n Node) StringValue() string {
	return n.str
}

// Raw returns the original value for diagnostics on unknown shapes.
func (n Node) Raw() any {
	return n.raw
}

// NullNode returns an absent-value node.
func NullNode() Node {
	return Node{kind: KindNull}
}

// StringNode returns a string leaf node.
func StringNode(s string) Node {
	return Node{kind: KindString, str: s}
}

// NumberNode returns a numeric leaf node.
func NumberNode() Node {
	return Node{kind: KindNumber}
}

// BoolNode returns a boolean leaf node.
func BoolNode() Node {
	return Node{kind: KindBool}
}

// SequenceNode returns a sequence node over the given children.
func SequenceNode(children ...Node) Node {
	return Node{kind: KindSequence, seq: children}
}

// MappingNode returns a mapping node over the given values. Traversal
// visits values in sorted key order so extraction is reproducible.
func MappingNode(values map[string]Node) Node {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return Node{kind: KindMapping, keys: keys, vals: values}
}

// UnknownNode returns a node for an unrecognized shape.
func UnknownNode(raw any) Node {
	return Node{kind: KindUnknown, raw: raw}
}

// FromValue converts a decoded JSON value (or any runtime value) into a
// Node. Shapes outside the JSON data model become KindUnknown rather
// than failing, per the handle-anything contract.
func FromValue(v any) Node {
	switch t := v.(type) {
	case nil:
		return NullNode()
	case string:
		return StringNode(t)
	case float64, float32, int, int64, int32, json.Number:
		return NumberNode()
	case bool:
		return BoolNode()
	case []any:
		children := make([]Node, len(t))
		for i, c := range t {
			children[i] = FromValue(c)
		}
		return SequenceNode(children...)
	case map[string]any:
		values := make(map[string]Node, len(t))
		for k, c := range t {
			values[k] = FromValue(c)
		}
		return MappingNode(values)
	default:
		return UnknownNode(v)
	}
}

// Children visits the node's child nodes in deterministic order:
// index order for sequences, sorted key order for mappings. Leaves
// have no children.
func (n Node) Children() []Node {
	switch n.kind {
	case KindSequence:
		return n.seq
	case KindMapping:
		out := make([]Node, 0, len(n.keys))
		for _, k := range n.keys {
			out = append(out, n.vals[k])
		}
		return out
	default:
		return nil
	}
}

// describe renders an unknown shape for a diagnostic message.
func describe(v any) string {
	return fmt.Sprintf("%T", v)
}
