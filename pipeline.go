package orcidsync

import (
	"context"
	"sort"
	"sync"

	"github.com/biopragmatics/orcidsync/pkg/errors"
	"github.com/biopragmatics/orcidsync/pkg/obograph"
	"github.com/biopragmatics/orcidsync/pkg/orcid"
	"github.com/biopragmatics/orcidsync/pkg/quickstatements"
	"github.com/biopragmatics/orcidsync/pkg/reconcile"
	"github.com/biopragmatics/orcidsync/pkg/unresolved"
)

// Status classifies the outcome of processing one namespace.
type Status string

// Namespace outcomes.
const (
	// StatusFound means reconciliation ran and produced resolved or
	// unresolved identifiers (possibly zero of each).
	StatusFound Status = "found"

	// StatusSkipped means the namespace was left alone, with the
	// reason recorded.
	StatusSkipped Status = "skipped"

	// StatusFailed means a fetch or query error stopped the namespace.
	// The rest of the run continues.
	StatusFailed Status = "failed"
)

// NamespaceResult is the outcome of processing one ontology namespace.
type NamespaceResult struct {
	Prefix     string
	QID        string
	Status     Status
	Reason     string
	Candidates int
	Resolved   []reconcile.Record
	Unresolved []orcid.ID
	Lines      []quickstatements.EntityLine
	Err        error
}

// Summary aggregates a whole run.
type Summary struct {
	// Results holds one entry per processed namespace, sorted by
	// prefix regardless of worker count.
	Results []NamespaceResult

	// Lines is the concatenation of every namespace's statements in
	// result order. This is what a live run submits.
	Lines []quickstatements.EntityLine

	// BatchURL points at the accepted batch. Empty for dry runs and
	// for runs that produced no statements.
	BatchURL string

	// DryRun records whether submission was suppressed.
	DryRun bool
}

// Count returns how many namespaces finished with the given status.
func (s *Summary) Count(status Status) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// Run processes the given namespaces. With an empty list it processes
// every cached prefix minus the skip list; an explicit list bypasses
// the skip list. Failures inside one namespace never stop the others;
// only cache population and store I/O abort the run.
func (p *Pipeline) Run(ctx context.Context, prefixes []string) (*Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := p.cache.Load(ctx); err != nil {
		return nil, err
	}

	targets := prefixes
	if len(targets) == 0 {
		for _, prefix := range p.cache.Prefixes() {
			if !p.config.skip[prefix] {
				targets = append(targets, prefix)
			}
		}
	}
	sort.Strings(targets)

	store, err := unresolved.Open(p.UnresolvedPath())
	if err != nil {
		return nil, err
	}

	p.logger.Info().
		Int("namespaces", len(targets)).
		Int("workers", p.config.workers).
		Bool("dry_run", p.config.dryRun).
		Msg("starting run")

	results := p.processAll(ctx, targets)

	summary := &Summary{Results: results, DryRun: p.config.dryRun}
	for _, result := range results {
		summary.Lines = append(summary.Lines, result.Lines...)
		if len(result.Unresolved) > 0 {
			store.RecordAll(result.Unresolved, result.Prefix)
			if err := store.Flush(); err != nil {
				return nil, err
			}
		}
	}

	if len(summary.Lines) == 0 {
		p.logger.Info().Msg("nothing to submit")
		return summary, nil
	}

	if p.config.dryRun {
		p.logger.Info().Int("statements", len(summary.Lines)).Msg("dry run, not submitting")
		return summary, nil
	}

	batchURL, err := p.submitter.Post(ctx, summary.Lines, quickstatements.DefaultBatchName)
	if err != nil {
		return nil, err
	}
	summary.BatchURL = batchURL
	p.logger.Info().
		Int("statements", len(summary.Lines)).
		Str("batch_url", batchURL).
		Msg("batch submitted")

	return summary, nil
}

// processAll fans the namespaces out over the worker pool. Results land
// at the index of their namespace, so the output order is the sorted
// input order whatever the interleaving.
func (p *Pipeline) processAll(ctx context.Context, targets []string) []NamespaceResult {
	results := make([]NamespaceResult, len(targets))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < p.config.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = p.process(ctx, targets[i])
			}
		}()
	}

	for i := range targets {
		select {
		case jobs <- i:
		case <-ctx.Done():
			results[i] = NamespaceResult{
				Prefix: targets[i],
				Status: StatusFailed,
				Reason: "canceled",
				Err:    errors.FromContext(ctx.Err()),
			}
		}
	}
	close(jobs)
	wg.Wait()

	return results
}

// process runs the extract-reconcile-build sequence for one namespace.
func (p *Pipeline) process(ctx context.Context, prefix string) NamespaceResult {
	logger := p.logger.With().Str("prefix", prefix).Logger()
	result := NamespaceResult{Prefix: prefix}

	if err := ctx.Err(); err != nil {
		result.Status = StatusFailed
		result.Reason = "canceled"
		result.Err = errors.FromContext(err)
		return result
	}

	qid, ok := p.cache.QID(prefix)
	if !ok {
		logger.Warn().Msg("no wikidata item for namespace, skipping")
		result.Status = StatusSkipped
		result.Reason = "no wikidata item"
		return result
	}
	result.QID = qid

	doc, err := p.fetcher.FetchByPrefix(ctx, prefix)
	if err != nil {
		// A well-formed document with no graphs is a normal condition
		// for some namespaces, not a failure.
		if errors.Is(err, errors.ErrNoGraphs) {
			logger.Warn().Msg("no graphs in document, skipping")
			result.Status = StatusSkipped
			result.Reason = "no graphs"
			return result
		}
		logger.Warn().Err(err).Msg("fetching graph document failed, skipping")
		result.Status = StatusFailed
		result.Reason = "fetch failed"
		result.Err = err
		return result
	}

	counts := p.scanner.Scan(doc, prefix)
	if len(counts) == 0 {
		logger.Info().Msg("no contributor identifiers in graph document")
		result.Status = StatusSkipped
		result.Reason = "no contributor identifiers"
		return result
	}
	result.Candidates = len(counts)

	reconciled, err := p.reconciler.Reconcile(ctx, counts, qid)
	if err != nil {
		if errors.Is(err, errors.ErrNoContributors) {
			result.Status = StatusSkipped
			result.Reason = "no contributor identifiers"
			return result
		}
		logger.Warn().Err(err).Msg("reconciliation failed, skipping")
		result.Status = StatusFailed
		result.Reason = "reconciliation failed"
		result.Err = errors.WrapNamespace(prefix, "reconcile", err)
		return result
	}

	result.Status = StatusFound
	result.Resolved = reconciled.Resolved
	result.Unresolved = reconciled.Unresolved
	result.Lines = quickstatements.Build(qid, reconciled.Resolved, obograph.DocumentURL(prefix), p.now())

	logger.Info().
		Int("candidates", result.Candidates).
		Int("resolved", len(result.Resolved)).
		Int("unresolved", len(result.Unresolved)).
		Int("statements", len(result.Lines)).
		Msg("namespace reconciled")

	return result
}
