package output

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	orcidsync "github.com/biopragmatics/orcidsync"
	"github.com/biopragmatics/orcidsync/pkg/prefixcache"
	"github.com/biopragmatics/orcidsync/pkg/reconcile"
	"github.com/biopragmatics/orcidsync/pkg/unresolved"
)

// maxDescriptionLength bounds the description column so contributor
// tables stay readable on one line per row.
const maxDescriptionLength = 60

var titleCaser = cases.Title(language.English)

// Shorten truncates s to at most n runes, marking the cut with an
// ellipsis.
func Shorten(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// ContributorsData renders resolved contributor records.
func ContributorsData(records []reconcile.Record) Data {
	data := Data{
		Headers:         []string{"ORCID", "QID", "Label", "Description", "Count"},
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight},
	}
	for _, record := range records {
		data.Rows = append(data.Rows, []string{
			record.ORCID.String(),
			record.QID,
			record.Label,
			Shorten(record.Description, maxDescriptionLength),
			strconv.Itoa(record.Count),
		})
	}
	return data
}

// ResultsData renders per-namespace run outcomes.
func ResultsData(results []orcidsync.NamespaceResult) Data {
	data := Data{
		Headers: []string{"Prefix", "QID", "Status", "Candidates", "Resolved", "Unresolved", "Statements", "Reason"},
		ColumnAlignment: []Align{
			AlignLeft, AlignLeft, AlignLeft,
			AlignRight, AlignRight, AlignRight, AlignRight,
			AlignLeft,
		},
	}
	for _, result := range results {
		reason := result.Reason
		if result.Err != nil {
			reason = Shorten(result.Err.Error(), maxDescriptionLength)
		}
		data.Rows = append(data.Rows, []string{
			result.Prefix,
			result.QID,
			titleCaser.String(string(result.Status)),
			strconv.Itoa(result.Candidates),
			strconv.Itoa(len(result.Resolved)),
			strconv.Itoa(len(result.Unresolved)),
			strconv.Itoa(len(result.Lines)),
			reason,
		})
	}
	return data
}

// UnresolvedData renders stored unresolved identifiers.
func UnresolvedData(entries []unresolved.Entry) Data {
	data := Data{
		Headers:         []string{"ORCID", "Namespaces"},
		ColumnAlignment: []Align{AlignLeft, AlignLeft},
	}
	for _, entry := range entries {
		data.Rows = append(data.Rows, []string{
			entry.ORCID.String(),
			strings.Join(entry.Prefixes, ", "),
		})
	}
	return data
}

// PrefixesData renders the prefix-to-item cache contents.
func PrefixesData(cache *prefixcache.Cache) Data {
	data := Data{
		Headers:         []string{"Prefix", "QID"},
		ColumnAlignment: []Align{AlignLeft, AlignLeft},
	}
	for _, prefix := range cache.Prefixes() {
		qid, _ := cache.QID(prefix)
		data.Rows = append(data.Rows, []string{prefix, qid})
	}
	return data
}
