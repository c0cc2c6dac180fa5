// Package obograph models OBO Graph JSON documents and scans their
// nodes for embedded contributor identifiers. Node bodies have no fixed
// schema beyond an id field; everything else is arbitrary nested data.
package obograph

import (
	"fmt"
	"strings"
)

// PURLBase is the OBO Foundry persistent URL root.
const PURLBase = "http://purl.obolibrary.org/obo"

// Document is a parsed OBO Graph JSON document.
type Document struct {
	Graphs []Graph `json:"graphs"`
}

// Graph is one named graph within a document.
type Graph struct {
	ID    string `json:"id,omitempty"`
	Nodes []Node `json:"nodes"`
}

// Node is a single graph node. Only the id field is structurally
// guaranteed; the rest is free-form and scanned as-is.
type Node map[string]any

// ID returns the node's URI identifier, or "" when absent or non-string.
func (n Node) ID() string {
	id, _ := n["id"].(string)
	return id
}

// DocumentURL returns the PURL of the ontology's JSON graph document,
// which doubles as the provenance source URL on emitted statements.
func DocumentURL(prefix string) string {
	return fmt.Sprintf("%s/%s.json", PURLBase, prefix)
}

// URIPrefix returns the URI prefix that identifies a namespace's own
// terms, e.g. http://purl.obolibrary.org/obo/UBERON_ for "uberon".
// Matching against node ids is case-sensitive and exact.
func URIPrefix(prefix string) string {
	return fmt.Sprintf("%s/%s_", PURLBase, strings.ToUpper(prefix))
}
