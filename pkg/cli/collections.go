package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/odatamock/pkg/catalog"
	"github.com/getmockd/odatamock/pkg/cli/internal/output"
)

func newCollectionsCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collections",
		Aliases: []string{"ls"},
		Short:   "List the collections the seed provides",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			seed, _, err := loadSeed(r)
			if err != nil {
				return err
			}

			cat := catalog.New()
			cat.Load(seed)
			overview := cat.Overview()

			if g.jsonOutput {
				return output.JSON(cmd.OutOrStdout(), overview)
			}

			w := output.Table(cmd.OutOrStdout())
			fmt.Fprintln(w, "NAME\tRECORDS")
			for _, info := range overview.Details {
				fmt.Fprintf(w, "%s\t%d\n", info.Name, info.Records)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d collections, %d records\n", overview.Collections, overview.TotalRecords)
			return nil
		},
	}
	addSeedFlags(cmd)
	return cmd
}
