// Package wikidata is the authoritative-source collaborator. It runs a
// small, fixed set of SPARQL query templates against the Wikidata Query
// Service and unwraps the structured result envelope into plain string
// records.
package wikidata

// Entity and property identifiers used by the query templates and
// emitted statements.
const (
	// EntityURIPrefix is stripped from entity URIs to recover bare QIDs.
	EntityURIPrefix = "http://www.wikidata.org/entity/"

	// ContributorProperty links a work to a person who contributed to it.
	ContributorProperty = "P767"

	// ORCIDProperty holds a person's ORCID iD.
	ORCIDProperty = "P496"

	// PartOfProperty relates an ontology to the foundry it belongs to.
	PartOfProperty = "P361"

	// ShortNameProperty holds an ontology's namespace prefix.
	ShortNameProperty = "P1813"

	// OBOFoundryItem is the OBO Foundry collection item.
	OBOFoundryItem = "Q4117183"

	// ReferenceURLSource qualifies a statement with its source URL.
	ReferenceURLSource = "S854"

	// RetrievedAtSource qualifies a statement with its retrieval date.
	RetrievedAtSource = "S813"
)

// DefaultEndpoint is the public Wikidata Query Service endpoint.
const DefaultEndpoint = "https://query.wikidata.org/sparql"
