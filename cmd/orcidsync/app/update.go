package app

import (
	"fmt"

	"github.com/spf13/cobra"

	orcidsync "github.com/biopragmatics/orcidsync"
	"github.com/biopragmatics/orcidsync/internal/cmd/output"
	"github.com/biopragmatics/orcidsync/pkg/quickstatements"
)

// NewUpdateCommand creates the update command, the main entry point of
// the pipeline.
func (a *App) NewUpdateCommand() *cobra.Command {
	var (
		dryRun  bool
		workers int
	)

	cmd := &cobra.Command{
		Use:   "update [prefix...]",
		Short: "Reconcile ontology contributors against Wikidata",
		Long: `Update runs the full pipeline: for each ontology namespace it fetches
the OBO Graph JSON release, extracts ORCID identifiers, diffs them
against the contributor statements on the ontology's Wikidata item, and
collects QuickStatements for the gap.

Without arguments every cached namespace is processed, minus a built-in
skip list of very large ontologies. Naming namespaces explicitly
bypasses the skip list.

All namespaces share one batch. With --dry-run the batch is printed
instead of submitted.`,
		Example: `  orcidsync update                 # full run, submit one batch
  orcidsync update go uberon       # two namespaces only
  orcidsync update --dry-run       # print statements, submit nothing
  orcidsync update --workers 4     # parallel fetch and reconcile`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.config.DryRun = dryRun
			if workers > 0 {
				a.config.Workers = workers
			}

			pipeline, err := a.Pipeline()
			if err != nil {
				return err
			}

			summary, err := pipeline.Run(cmd.Context(), args)
			if err != nil {
				return err
			}

			return a.printSummary(cmd, summary)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "render statements without submitting")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of namespaces processed concurrently")

	return cmd
}

func (a *App) printSummary(cmd *cobra.Command, summary *orcidsync.Summary) error {
	format := output.DetectFormat(a.config.Format)
	formatter := output.NewFormatter(format)
	out := cmd.OutOrStdout()

	if format != output.FormatTable {
		return formatter.Format(out, summary)
	}

	if err := formatter.Format(out, output.ResultsData(summary.Results)); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d found, %d skipped, %d failed, %d statements\n",
		summary.Count(orcidsync.StatusFound),
		summary.Count(orcidsync.StatusSkipped),
		summary.Count(orcidsync.StatusFailed),
		len(summary.Lines))

	if summary.DryRun && len(summary.Lines) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, quickstatements.RenderLines(summary.Lines))
	}
	if summary.BatchURL != "" {
		fmt.Fprintf(out, "batch: %s\n", summary.BatchURL)
	}

	return nil
}
