// Package quickstatements builds and submits QuickStatements batches.
// Statements are immutable once built and safe to submit repeatedly:
// the batch service deduplicates identical statements, so idempotency
// rests on the upstream handling rather than on this package.
package quickstatements

import (
	"fmt"
	"strings"

	"github.com/agentstation/utc"

	"github.com/biopragmatics/orcidsync/pkg/reconcile"
	"github.com/biopragmatics/orcidsync/pkg/wikidata"
)

// DefaultBatchName labels submitted batches in the service UI.
const DefaultBatchName = "Add additional ontology contributors"

// dayPrecision is the QuickStatements precision code for dates exact
// to the day.
const dayPrecision = 11

// Qualifier attaches provenance metadata to a statement.
type Qualifier struct {
	Property string
	Value    string // already rendered in QuickStatements V1 syntax
}

// TextQualifier builds a string-valued qualifier, e.g. a source URL.
func TextQualifier(property, text string) Qualifier {
	return Qualifier{Property: property, Value: fmt.Sprintf("%q", text)}
}

// DateQualifier builds a day-precision date qualifier.
func DateQualifier(property string, t utc.Time) Qualifier {
	value := fmt.Sprintf("+%sT00:00:00Z/%d", t.Format("2006-01-02"), dayPrecision)
	return Qualifier{Property: property, Value: value}
}

// RetrievedQualifier builds the standard retrieval-date qualifier.
func RetrievedQualifier(t utc.Time) Qualifier {
	return DateQualifier(wikidata.RetrievedAtSource, t)
}

// EntityLine is one edit statement linking a subject item to a target
// item through a property, with provenance qualifiers.
type EntityLine struct {
	Subject    string
	Predicate  string
	Target     string
	Qualifiers []Qualifier
}

// Render serializes the statement in QuickStatements V1 syntax.
func (l EntityLine) Render() string {
	parts := []string{l.Subject, l.Predicate, l.Target}
	for _, q := range l.Qualifiers {
		parts = append(parts, q.Property, q.Value)
	}
	return strings.Join(parts, "|")
}

// RenderLines serializes a batch, one statement per line.
func RenderLines(lines []EntityLine) string {
	rendered := make([]string, len(lines))
	for i, l := range lines {
		rendered[i] = l.Render()
	}
	return strings.Join(rendered, "\n")
}

// Build converts resolved contributor records into contributor
// statements on the ontology item, each qualified by the ontology's
// canonical source URL and the retrieval date. Unresolved identifiers
// never reach this function. Build is pure; submission is the caller's
// concern.
func Build(ontologyQID string, records []reconcile.Record, sourceURL string, retrieved utc.Time) []EntityLine {
	qualifiers := []Qualifier{
		TextQualifier(wikidata.ReferenceURLSource, sourceURL),
		RetrievedQualifier(retrieved),
	}

	lines := make([]EntityLine, 0, len(records))
	for _, record := range records {
		if record.QID == "" {
			continue
		}
		lines = append(lines, EntityLine{
			Subject:    ontologyQID,
			Predicate:  wikidata.ContributorProperty,
			Target:     record.QID,
			Qualifiers: qualifiers,
		})
	}
	return lines
}
