package obograph_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biopragmatics/orcidsync/pkg/logging"
	"github.com/biopragmatics/orcidsync/pkg/obograph"
	"github.com/biopragmatics/orcidsync/pkg/orcid"
)

func TestScanCountsAcrossNodes(t *testing.T) {
	doc := &obograph.Document{
		Graphs: []obograph.Graph{{
			Nodes: []obograph.Node{
				{
					"id":          "http://purl.obolibrary.org/obo/PFX_1",
					"contributor": "https://orcid.org/0000-0001-2345-6789",
				},
				{
					"id":          "http://purl.obolibrary.org/obo/PFX_2",
					"contributor": "orcid:0000-0001-2345-6789",
				},
			},
		}},
	}

	s := obograph.NewScanner(logging.NewNopLogger())
	counts := s.Scan(doc, "pfx")
	assert.Equal(t, map[orcid.ID]int{"0000-0001-2345-6789": 2}, counts)
}

func TestScanFiltersForeignNodes(t *testing.T) {
	doc := &obograph.Document{
		Graphs: []obograph.Graph{{
			Nodes: []obograph.Node{
				{
					"id":      "http://purl.obolibrary.org/obo/OTHER_1",
					"creator": "https://orcid.org/0000-0002-1825-0097",
				},
				{
					// lowercase namespace segment must not match
					"id":      "http://purl.obolibrary.org/obo/pfx_1",
					"creator": "https://orcid.org/0000-0002-1825-0097",
				},
				{
					// missing id field
					"creator": "https://orcid.org/0000-0002-1825-0097",
				},
			},
		}},
	}

	s := obograph.NewScanner(logging.NewNopLogger())
	assert.Empty(t, s.Scan(doc, "pfx"))
}

func TestScanSingleNodeMultipleFields(t *testing.T) {
	doc := &obograph.Document{
		Graphs: []obograph.Graph{{
			Nodes: []obograph.Node{
				{
					"id":          "http://purl.obolibrary.org/obo/GO_0000001",
					"creator":     "https://orcid.org/0000-0002-1825-0097",
					"contributor": "orcid:0000-0002-1825-0097",
				},
			},
		}},
	}

	s := obograph.NewScanner(logging.NewNopLogger())
	counts := s.Scan(doc, "go")
	assert.Equal(t, 2, counts["0000-0002-1825-0097"],
		"one identifier in two fields of one node counts twice")
}

func TestScanHandlesMissingDocument(t *testing.T) {
	tl := logging.NewTestLogger(t)
	s := obograph.NewScanner(tl.Logger)

	assert.Empty(t, s.Scan(nil, "pfx"))
	assert.Empty(t, s.Scan(&obograph.Document{}, "pfx"))
	tl.AssertContains(t, "no graphs")
}

func TestScanRealisticDocument(t *testing.T) {
	// Shaped like actual OBO Graph JSON: identifiers buried inside
	// meta.basicPropertyValues entries.
	raw := `{
		"graphs": [{
			"id": "http://purl.obolibrary.org/obo/uberon.owl",
			"nodes": [{
				"id": "http://purl.obolibrary.org/obo/UBERON_0000002",
				"lbl": "uterine cervix",
				"meta": {
					"basicPropertyValues": [
						{"pred": "http://purl.org/dc/terms/contributor",
						 "val": "https://orcid.org/orcid.org/0000-0002-6601-2165"},
						{"pred": "http://purl.org/dc/terms/date",
						 "val": "2021-06-01T00:00:00Z"}
					],
					"deprecated": false
				}
			}]
		}]
	}`

	var doc obograph.Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	s := obograph.NewScanner(logging.NewNopLogger())
	counts := s.Scan(&doc, "uberon")
	assert.Equal(t, map[orcid.ID]int{"0000-0002-6601-2165": 1}, counts)
}

func TestURIPrefixAndDocumentURL(t *testing.T) {
	assert.Equal(t, "http://purl.obolibrary.org/obo/UBERON_", obograph.URIPrefix("uberon"))
	assert.Equal(t, "http://purl.obolibrary.org/obo/uberon.json", obograph.DocumentURL("uberon"))
}
