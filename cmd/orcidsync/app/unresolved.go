package app

import (
	"github.com/spf13/cobra"

	"github.com/biopragmatics/orcidsync/internal/cmd/output"
	"github.com/biopragmatics/orcidsync/pkg/unresolved"
)

// NewUnresolvedCommand creates the unresolved command listing stored
// identifiers Wikidata could not resolve.
func (a *App) NewUnresolvedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unresolved",
		Short: "List ORCID iDs with no Wikidata item",
		Long: `Unresolved lists the identifiers recorded by earlier runs that have no
matching Wikidata item, together with the namespaces that mention them.
These are candidates for item creation or manual curation.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipeline, err := a.Pipeline()
			if err != nil {
				return err
			}
			store, err := unresolved.Open(pipeline.UnresolvedPath())
			if err != nil {
				return err
			}

			format := output.DetectFormat(a.config.Format)
			formatter := output.NewFormatter(format)
			if format != output.FormatTable {
				return formatter.Format(cmd.OutOrStdout(), store.Entries())
			}
			return formatter.Format(cmd.OutOrStdout(), output.UnresolvedData(store.Entries()))
		},
	}
}
