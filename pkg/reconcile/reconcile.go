// Package reconcile diffs extracted contributor identifiers against the
// authoritative source and splits the gap into resolvable records and
// unresolved identifiers. Re-running against a source that has since
// absorbed earlier edits converges: anything already annotated drops
// out of the resolved output.
package reconcile

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/biopragmatics/orcidsync/pkg/errors"
	"github.com/biopragmatics/orcidsync/pkg/logging"
	"github.com/biopragmatics/orcidsync/pkg/orcid"
	"github.com/biopragmatics/orcidsync/pkg/wikidata"
)

// Record is a resolved contributor together with how often the
// identifier was observed in the scanned graph data.
type Record struct {
	wikidata.Contributor
	Count int `json:"count"`
}

// Result is the outcome of reconciling one namespace.
type Result struct {
	// Resolved holds one record per candidate the authoritative source
	// knows, sorted by ORCID for diffable output.
	Resolved []Record

	// Unresolved holds candidates with no record in the authoritative
	// source, sorted. These are persisted for later investigation.
	Unresolved []orcid.ID
}

// Empty reports whether reconciliation produced no work at all.
func (r *Result) Empty() bool {
	return len(r.Resolved) == 0 && len(r.Unresolved) == 0
}

// Reconciler computes the unannotated subset of extracted identifiers
// and resolves it against the authoritative source.
type Reconciler struct {
	exec             wikidata.QueryExecutor
	logger           *zerolog.Logger
	validateChecksum bool
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(r *Reconciler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithChecksumValidation toggles ISO 7064 mod 11-2 validation of
// candidates before resolution. Checksum-invalid identifiers are
// diverted straight to the unresolved set instead of being queried.
// Enabled by default.
func WithChecksumValidation(enabled bool) Option {
	return func(r *Reconciler) {
		r.validateChecksum = enabled
	}
}

// New creates a Reconciler backed by the given query executor.
func New(exec wikidata.QueryExecutor, opts ...Option) *Reconciler {
	r := &Reconciler{
		exec:             exec,
		logger:           logging.Default(),
		validateChecksum: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile diffs candidate occurrence counts against the identifiers
// already annotated on the target ontology item, then batch-resolves
// the remainder. Every candidate not already annotated ends up in
// exactly one of Resolved or Unresolved.
//
// An empty candidate set returns ErrNoContributors; a candidate set
// fully covered by existing annotations returns an empty Result. The
// two cases are reported differently by the pipeline.
func (r *Reconciler) Reconcile(ctx context.Context, counts map[orcid.ID]int, ontologyQID string) (*Result, error) {
	if len(counts) == 0 {
		return nil, errors.ErrNoContributors
	}

	annotated, err := wikidata.ExistingAnnotations(ctx, r.exec, ontologyQID)
	if err != nil {
		return nil, err
	}

	var candidates []orcid.ID
	for id := range counts {
		if !annotated[id] {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		// Everything observed is already annotated upstream.
		return &Result{}, nil
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	var resolvable []orcid.ID
	var unresolved []orcid.ID
	for _, id := range candidates {
		if r.validateChecksum && !id.ChecksumOK() {
			r.logger.Debug().
				Str("orcid", id.String()).
				Msg("checksum-invalid identifier, recording as unresolved")
			unresolved = append(unresolved, id)
			continue
		}
		resolvable = append(resolvable, id)
	}

	// One batched lookup bounds the request count regardless of how
	// many candidates a namespace yields.
	contributors, err := wikidata.ResolveContributors(ctx, r.exec, resolvable)
	if err != nil {
		return nil, err
	}

	resolvedSet := make(map[orcid.ID]bool, len(contributors))
	resolved := make([]Record, 0, len(contributors))
	for _, contributor := range contributors {
		resolvedSet[contributor.ORCID] = true
		resolved = append(resolved, Record{
			Contributor: contributor,
			Count:       counts[contributor.ORCID],
		})
	}

	for _, id := range resolvable {
		if !resolvedSet[id] {
			unresolved = append(unresolved, id)
		}
	}
	sort.Slice(unresolved, func(i, j int) bool { return unresolved[i] < unresolved[j] })

	return &Result{Resolved: resolved, Unresolved: unresolved}, nil
}
