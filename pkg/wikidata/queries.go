package wikidata

import (
	"fmt"
	"sort"
	"strings"

	"github.com/biopragmatics/orcidsync/pkg/orcid"
)

// The query surface is deliberately restricted to these templates: all
// are SELECT DISTINCT and ORDER BY the identifier column, so results
// are stable across runs and safe to diff.

// ExistingAnnotationsQuery returns the query for ORCID iDs already
// linked to an ontology item through its contributor statements.
func ExistingAnnotationsQuery(ontologyQID string) string {
	return fmt.Sprintf(
		"SELECT DISTINCT ?orcid WHERE { wd:%s wdt:%s/wdt:%s ?orcid } ORDER BY ?orcid",
		ontologyQID, ContributorProperty, ORCIDProperty,
	)
}

// ResolveQuery returns the query resolving a set of candidate ORCID iDs
// to their Wikidata items, labels, and descriptions in one request.
// Candidates are sorted so identical input sets produce identical query
// text.
func ResolveQuery(ids []orcid.ID) string {
	sorted := make([]string, 0, len(ids))
	for _, id := range ids {
		sorted = append(sorted, fmt.Sprintf("%q", id.String()))
	}
	sort.Strings(sorted)

	return fmt.Sprintf(`SELECT DISTINCT ?orcid ?contributor ?contributorLabel ?contributorDescription WHERE {
  VALUES ?orcid { %s }
  ?contributor wdt:%s ?orcid .
  SERVICE wikibase:label { bd:serviceParam wikibase:language "[AUTO_LANGUAGE],en". }
}
ORDER BY ?orcid`, strings.Join(sorted, " "), ORCIDProperty)
}

// PrefixIndexQuery returns the bulk query mapping every OBO Foundry
// namespace prefix to its ontology item.
func PrefixIndexQuery() string {
	return fmt.Sprintf(`SELECT DISTINCT ?prefix ?ontology WHERE {
  ?ontology wdt:%s wd:%s ;
            wdt:%s ?prefix .
}
ORDER BY ?prefix`, PartOfProperty, OBOFoundryItem, ShortNameProperty)
}
