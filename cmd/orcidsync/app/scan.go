package app

import (
	"fmt"

	"github.com/spf13/cobra"

	orcidsync "github.com/biopragmatics/orcidsync"
	"github.com/biopragmatics/orcidsync/internal/cmd/output"
)

// NewScanCommand creates the scan command for inspecting a single
// namespace without touching Wikidata's write path.
func (a *App) NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <prefix>",
		Short: "Extract and resolve contributors for one namespace",
		Args:  cobra.ExactArgs(1),
		Long: `Scan fetches one ontology's graph document, extracts its ORCID
identifiers, and resolves them against Wikidata. Nothing is submitted
and the unresolved store is updated just like a dry update run.`,
		Example: `  orcidsync scan uberon
  orcidsync scan go -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := a.Pipeline(orcidsync.WithDryRun(true))
			if err != nil {
				return err
			}

			summary, err := pipeline.Run(cmd.Context(), args)
			if err != nil {
				return err
			}
			result := summary.Results[0]

			format := output.DetectFormat(a.config.Format)
			formatter := output.NewFormatter(format)
			out := cmd.OutOrStdout()

			if format != output.FormatTable {
				return formatter.Format(out, result)
			}

			if result.Status != orcidsync.StatusFound {
				fmt.Fprintf(out, "%s: %s (%s)\n", result.Prefix, result.Status, result.Reason)
				return result.Err
			}

			if err := formatter.Format(out, output.ContributorsData(result.Resolved)); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d candidates, %d resolved, %d unresolved\n",
				result.Candidates, len(result.Resolved), len(result.Unresolved))
			for _, id := range result.Unresolved {
				fmt.Fprintf(out, "unresolved: %s\n", id)
			}
			return nil
		},
	}

	return cmd
}
