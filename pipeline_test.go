package orcidsync_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orcidsync "github.com/biopragmatics/orcidsync"
	"github.com/biopragmatics/orcidsync/pkg/errors"
	"github.com/biopragmatics/orcidsync/pkg/logging"
	"github.com/biopragmatics/orcidsync/pkg/obograph"
	"github.com/biopragmatics/orcidsync/pkg/quickstatements"
	"github.com/biopragmatics/orcidsync/pkg/unresolved"
	"github.com/biopragmatics/orcidsync/pkg/wikidata"
)

const (
	carberryID = "0000-0002-1825-0097"
	hawkingID  = "0000-0002-9079-593X"
	haakID     = "0000-0001-5109-3700"
)

// fakeSource answers the three query templates from in-memory maps.
type fakeSource struct {
	mu        sync.Mutex
	prefixes  map[string]string   // prefix -> ontology QID
	annotated map[string][]string // ontology QID -> already linked ORCID iDs
	known     map[string]string   // ORCID iD -> contributor QID
	queries   int
}

func (f *fakeSource) Select(_ context.Context, query string) ([]wikidata.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++

	switch {
	case strings.Contains(query, "VALUES ?orcid"):
		var records []wikidata.Record
		for id, qid := range f.known {
			if strings.Contains(query, `"`+id+`"`) {
				records = append(records, wikidata.Record{
					"orcid":            id,
					"contributor":      wikidata.EntityURIPrefix + qid,
					"contributorLabel": "Contributor " + qid,
				})
			}
		}
		return records, nil
	case strings.Contains(query, "wd:"+wikidata.OBOFoundryItem):
		var records []wikidata.Record
		for prefix, qid := range f.prefixes {
			records = append(records, wikidata.Record{
				"prefix":   prefix,
				"ontology": wikidata.EntityURIPrefix + qid,
			})
		}
		return records, nil
	default:
		for qid, ids := range f.annotated {
			if strings.Contains(query, "wd:"+qid+" ") {
				records := make([]wikidata.Record, 0, len(ids))
				for _, id := range ids {
					records = append(records, wikidata.Record{"orcid": id})
				}
				return records, nil
			}
		}
		return nil, nil
	}
}

type fakeFetcher struct {
	mu   sync.Mutex
	docs map[string]*obograph.Document
	errs map[string]error
}

func (f *fakeFetcher) FetchByPrefix(_ context.Context, prefix string) (*obograph.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[prefix]; err != nil {
		return nil, err
	}
	if doc := f.docs[prefix]; doc != nil {
		return doc, nil
	}
	return nil, errors.NewNamespaceError(prefix, "fetch", errors.ErrNotFound)
}

type fakeSubmitter struct {
	mu    sync.Mutex
	posts [][]quickstatements.EntityLine
	names []string
}

func (f *fakeSubmitter) Post(_ context.Context, lines []quickstatements.EntityLine, batchName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = append(f.posts, lines)
	f.names = append(f.names, batchName)
	return "https://quickstatements.toolforge.org/#/batch/7", nil
}

// testDocument builds a graph document whose first node carries the
// given identifiers as contributor property values.
func testDocument(prefix string, ids ...string) *obograph.Document {
	values := make([]any, 0, len(ids))
	for _, id := range ids {
		values = append(values, map[string]any{
			"pred": "http://purl.org/dc/terms/contributor",
			"val":  "https://orcid.org/" + id,
		})
	}
	return &obograph.Document{Graphs: []obograph.Graph{{
		Nodes: []obograph.Node{{
			"id":   obograph.URIPrefix(prefix) + "0000001",
			"meta": map[string]any{"basicPropertyValues": values},
		}},
	}}}
}

func fixedClock() utc.Time {
	return utc.Time{Time: time.Date(2026, 2, 23, 9, 0, 0, 0, time.UTC)}
}

func newTestPipeline(t *testing.T, source *fakeSource, fetcher *fakeFetcher, submitter *fakeSubmitter, extra ...orcidsync.Option) (*orcidsync.Pipeline, string) {
	t.Helper()
	dir := t.TempDir()
	opts := append([]orcidsync.Option{
		orcidsync.WithDataDir(dir),
		orcidsync.WithQueryExecutor(source),
		orcidsync.WithFetcher(fetcher),
		orcidsync.WithSubmitter(submitter),
		orcidsync.WithLogger(logging.NewNopLogger()),
		orcidsync.WithClock(fixedClock),
	}, extra...)
	p, err := orcidsync.New(opts...)
	require.NoError(t, err)
	return p, dir
}

func TestRunDryRun(t *testing.T) {
	source := &fakeSource{
		prefixes: map[string]string{"go": "Q135085"},
		known:    map[string]string{carberryID: "Q102427"},
	}
	fetcher := &fakeFetcher{docs: map[string]*obograph.Document{
		"go": testDocument("go", carberryID, hawkingID),
	}}
	submitter := &fakeSubmitter{}

	p, dir := newTestPipeline(t, source, fetcher, submitter, orcidsync.WithDryRun(true))
	summary, err := p.Run(context.Background(), []string{"go"})
	require.NoError(t, err)

	require.Len(t, summary.Results, 1)
	result := summary.Results[0]
	assert.Equal(t, orcidsync.StatusFound, result.Status)
	assert.Equal(t, "Q135085", result.QID)
	assert.Equal(t, 2, result.Candidates)
	require.Len(t, result.Resolved, 1)
	assert.Equal(t, "Q102427", result.Resolved[0].QID)
	assert.Equal(t, []string{hawkingID}, idsToStrings(result))

	require.Len(t, summary.Lines, 1)
	want := `Q135085|P767|Q102427|S854|"http://purl.obolibrary.org/obo/go.json"|S813|+2026-02-23T00:00:00Z/11`
	assert.Equal(t, want, summary.Lines[0].Render())

	assert.True(t, summary.DryRun)
	assert.Empty(t, summary.BatchURL)
	assert.Empty(t, submitter.posts, "dry run must not submit")

	// The unresolved identifier lands in the store file.
	data, err := os.ReadFile(filepath.Join(dir, unresolved.DefaultFilename))
	require.NoError(t, err)
	assert.Equal(t, hawkingID+"\tgo\n", string(data))
}

func idsToStrings(result orcidsync.NamespaceResult) []string {
	out := make([]string, 0, len(result.Unresolved))
	for _, id := range result.Unresolved {
		out = append(out, id.String())
	}
	return out
}

func TestRunSubmitsOneBatch(t *testing.T) {
	source := &fakeSource{
		prefixes: map[string]string{"go": "Q135085", "uberon": "Q7876491"},
		known:    map[string]string{carberryID: "Q102427", hawkingID: "Q17744"},
	}
	fetcher := &fakeFetcher{docs: map[string]*obograph.Document{
		"go":     testDocument("go", carberryID),
		"uberon": testDocument("uberon", hawkingID),
	}}
	submitter := &fakeSubmitter{}

	p, _ := newTestPipeline(t, source, fetcher, submitter)
	summary, err := p.Run(context.Background(), []string{"uberon", "go"})
	require.NoError(t, err)

	assert.Equal(t, "https://quickstatements.toolforge.org/#/batch/7", summary.BatchURL)
	require.Len(t, submitter.posts, 1, "all namespaces share one batch")
	assert.Len(t, submitter.posts[0], 2)
	assert.Equal(t, quickstatements.DefaultBatchName, submitter.names[0])

	// Results come back sorted by prefix whatever the input order.
	require.Len(t, summary.Results, 2)
	assert.Equal(t, "go", summary.Results[0].Prefix)
	assert.Equal(t, "uberon", summary.Results[1].Prefix)
}

func TestRunSkipsPrefixWithoutItem(t *testing.T) {
	source := &fakeSource{prefixes: map[string]string{"go": "Q135085"}}
	fetcher := &fakeFetcher{}
	submitter := &fakeSubmitter{}

	p, _ := newTestPipeline(t, source, fetcher, submitter)
	summary, err := p.Run(context.Background(), []string{"nosuch"})
	require.NoError(t, err)

	require.Len(t, summary.Results, 1)
	assert.Equal(t, orcidsync.StatusSkipped, summary.Results[0].Status)
	assert.Equal(t, "no wikidata item", summary.Results[0].Reason)
	assert.Empty(t, submitter.posts)
}

func TestRunContinuesPastFetchFailure(t *testing.T) {
	source := &fakeSource{
		prefixes: map[string]string{"go": "Q135085", "uberon": "Q7876491"},
		known:    map[string]string{carberryID: "Q102427"},
	}
	fetcher := &fakeFetcher{
		docs: map[string]*obograph.Document{"uberon": testDocument("uberon", carberryID)},
		errs: map[string]error{"go": errors.NewQueryError("purl", 503, "unavailable")},
	}
	submitter := &fakeSubmitter{}

	p, _ := newTestPipeline(t, source, fetcher, submitter)
	summary, err := p.Run(context.Background(), []string{"go", "uberon"})
	require.NoError(t, err, "a namespace failure never aborts the run")

	assert.Equal(t, orcidsync.StatusFailed, summary.Results[0].Status)
	assert.Error(t, summary.Results[0].Err)
	assert.Equal(t, orcidsync.StatusFound, summary.Results[1].Status)
	assert.Equal(t, 1, summary.Count(orcidsync.StatusFailed))
	assert.Equal(t, 1, summary.Count(orcidsync.StatusFound))
	require.Len(t, submitter.posts, 1)
}

func TestRunSkipsNamespaceWithoutGraphs(t *testing.T) {
	source := &fakeSource{
		prefixes: map[string]string{"go": "Q135085", "uberon": "Q7876491"},
		known:    map[string]string{carberryID: "Q102427"},
	}
	fetcher := &fakeFetcher{
		docs: map[string]*obograph.Document{"uberon": testDocument("uberon", carberryID)},
		errs: map[string]error{"go": errors.NewNamespaceError("go", "fetch", errors.ErrNoGraphs)},
	}
	submitter := &fakeSubmitter{}

	p, _ := newTestPipeline(t, source, fetcher, submitter, orcidsync.WithDryRun(true))
	summary, err := p.Run(context.Background(), []string{"go", "uberon"})
	require.NoError(t, err)

	assert.Equal(t, orcidsync.StatusSkipped, summary.Results[0].Status)
	assert.Equal(t, "no graphs", summary.Results[0].Reason)
	assert.NoError(t, summary.Results[0].Err, "an empty document is not a failure")
	assert.Equal(t, orcidsync.StatusFound, summary.Results[1].Status)
}

func TestRunDefaultsToCachedPrefixesMinusSkip(t *testing.T) {
	source := &fakeSource{
		prefixes: map[string]string{"go": "Q135085", "chebi": "Q902623", "ncbitaxon": "Q13711410"},
	}
	fetcher := &fakeFetcher{docs: map[string]*obograph.Document{"go": testDocument("go")}}
	submitter := &fakeSubmitter{}

	p, _ := newTestPipeline(t, source, fetcher, submitter)
	summary, err := p.Run(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, summary.Results, 1)
	assert.Equal(t, "go", summary.Results[0].Prefix)
}

func TestRunExplicitPrefixBypassesSkip(t *testing.T) {
	source := &fakeSource{
		prefixes: map[string]string{"chebi": "Q902623"},
		known:    map[string]string{haakID: "Q19604647"},
	}
	fetcher := &fakeFetcher{docs: map[string]*obograph.Document{
		"chebi": testDocument("chebi", haakID),
	}}
	submitter := &fakeSubmitter{}

	p, _ := newTestPipeline(t, source, fetcher, submitter, orcidsync.WithDryRun(true))
	summary, err := p.Run(context.Background(), []string{"chebi"})
	require.NoError(t, err)

	require.Len(t, summary.Results, 1)
	assert.Equal(t, orcidsync.StatusFound, summary.Results[0].Status)
}

func TestRunNothingToSubmit(t *testing.T) {
	source := &fakeSource{
		prefixes:  map[string]string{"go": "Q135085"},
		annotated: map[string][]string{"Q135085": {carberryID}},
	}
	fetcher := &fakeFetcher{docs: map[string]*obograph.Document{
		"go": testDocument("go", carberryID),
	}}
	submitter := &fakeSubmitter{}

	p, _ := newTestPipeline(t, source, fetcher, submitter)
	summary, err := p.Run(context.Background(), []string{"go"})
	require.NoError(t, err)

	assert.Empty(t, summary.Lines)
	assert.Empty(t, summary.BatchURL)
	assert.Empty(t, submitter.posts, "empty batches are never submitted")
}

func TestRunParallelWorkersDeterministic(t *testing.T) {
	prefixes := map[string]string{
		"bfo": "Q4936550", "cl": "Q21014462", "doid": "Q5282129",
		"go": "Q135085", "obi": "Q7072326", "uberon": "Q7876491",
	}
	docs := make(map[string]*obograph.Document, len(prefixes))
	for prefix := range prefixes {
		docs[prefix] = testDocument(prefix, carberryID)
	}
	source := &fakeSource{prefixes: prefixes, known: map[string]string{carberryID: "Q102427"}}
	fetcher := &fakeFetcher{docs: docs}
	submitter := &fakeSubmitter{}

	p, _ := newTestPipeline(t, source, fetcher, submitter,
		orcidsync.WithWorkers(4), orcidsync.WithDryRun(true))
	summary, err := p.Run(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, summary.Results, len(prefixes))
	for i := 1; i < len(summary.Results); i++ {
		assert.Less(t, summary.Results[i-1].Prefix, summary.Results[i].Prefix)
	}
	assert.Len(t, summary.Lines, len(prefixes))
}

func TestRunCanceledContext(t *testing.T) {
	source := &fakeSource{
		prefixes: map[string]string{"go": "Q135085", "uberon": "Q7876491"},
	}
	fetcher := &fakeFetcher{docs: map[string]*obograph.Document{
		"go":     testDocument("go", carberryID),
		"uberon": testDocument("uberon", carberryID),
	}}
	submitter := &fakeSubmitter{}

	p, _ := newTestPipeline(t, source, fetcher, submitter)

	ctx, cancel := context.WithCancel(context.Background())

	// Populate the cache before canceling so only namespace
	// processing sees the dead context.
	require.NoError(t, p.Cache().Load(ctx))
	cancel()

	summary, err := p.Run(ctx, []string{"go", "uberon"})
	require.NoError(t, err)

	require.Len(t, summary.Results, 2)
	for _, result := range summary.Results {
		assert.Equal(t, orcidsync.StatusFailed, result.Status)
		assert.Equal(t, "canceled", result.Reason)
		assert.True(t, errors.IsCanceled(result.Err))
	}
	assert.Empty(t, submitter.posts)
}

func TestRunCachePopulationFailureIsFatal(t *testing.T) {
	source := &fakeSource{} // empty prefix index is fine, but use an error path instead
	fetcher := &fakeFetcher{}
	submitter := &fakeSubmitter{}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prefixes.json"), []byte("not json"), 0o644))

	p, err := orcidsync.New(
		orcidsync.WithDataDir(dir),
		orcidsync.WithQueryExecutor(source),
		orcidsync.WithFetcher(fetcher),
		orcidsync.WithSubmitter(submitter),
		orcidsync.WithLogger(logging.NewNopLogger()),
	)
	require.NoError(t, err)

	_, err = p.Run(context.Background(), []string{"go"})
	require.Error(t, err)
	assert.True(t, errors.IsCacheUnavailable(err))
}

func TestNewRejectsBadWorkerCount(t *testing.T) {
	_, err := orcidsync.New(orcidsync.WithWorkers(0))
	require.Error(t, err)
}
