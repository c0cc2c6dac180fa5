package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/biopragmatics/orcidsync/internal/cmd/output"
)

// NewCacheCommand creates the cache command group for the prefix-to-item
// mapping.
func (a *App) NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the ontology prefix cache",
		Long: `The prefix cache maps every OBO Foundry namespace prefix to its
Wikidata item. It is populated with one bulk query on first use and
reused across runs until refreshed.`,
	}

	cmd.AddCommand(a.newCacheShowCommand())
	cmd.AddCommand(a.newCacheRefreshCommand())

	return cmd
}

func (a *App) newCacheShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List cached prefixes and their Wikidata items",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipeline, err := a.Pipeline()
			if err != nil {
				return err
			}
			cache := pipeline.Cache()
			if err := cache.Load(cmd.Context()); err != nil {
				return err
			}

			format := output.DetectFormat(a.config.Format)
			formatter := output.NewFormatter(format)
			if format != output.FormatTable {
				index := make(map[string]string, cache.Len())
				for _, prefix := range cache.Prefixes() {
					qid, _ := cache.QID(prefix)
					index[prefix] = qid
				}
				return formatter.Format(cmd.OutOrStdout(), index)
			}
			return formatter.Format(cmd.OutOrStdout(), output.PrefixesData(cache))
		},
	}
}

func (a *App) newCacheRefreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Re-run the bulk query and overwrite the cache file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipeline, err := a.Pipeline()
			if err != nil {
				return err
			}
			cache := pipeline.Cache()
			if err := cache.Refresh(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cached %d prefixes\n", cache.Len())
			return nil
		},
	}
}
