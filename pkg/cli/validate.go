package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/odatamock/pkg/cli/internal/output"
	"github.com/getmockd/odatamock/pkg/config"
)

// ValidateOutput is the JSON form of a successful validation.
type ValidateOutput struct {
	Valid       bool     `json:"valid"`
	Config      string   `json:"config,omitempty"`
	Files       []string `json:"files"`
	Collections int      `json:"collections"`
	Records     int      `json:"records"`
}

func newValidateCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [seed-file...]",
		Short: "Check the configuration and seed fixtures without serving",
		Long: `Validate the resolved configuration and every seed document it names.

With arguments, only the given seed files (glob patterns allowed) are
checked against the seed schema.`,
		Example: `  odatamock validate
  odatamock validate --config odatamock.yaml
  odatamock validate fixtures/*.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := ValidateOutput{Valid: true, Files: []string{}}

			var seed config.Seed
			if len(args) > 0 {
				s, files, err := config.LoadSeeds(args, config.BaseDir(""))
				if err != nil {
					return err
				}
				if len(files) == 0 {
					return fmt.Errorf("no seed files match %v", args)
				}
				seed, out.Files = s, files
			} else {
				r, err := loadConfig(cmd, g)
				if err != nil {
					return err
				}
				s, files, err := loadSeed(r)
				if err != nil {
					return err
				}
				seed, out.Config = s, r.Path
				if files != nil {
					out.Files = files
				}
			}
			out.Collections = len(seed)
			out.Records = seed.RecordCount()

			if g.jsonOutput {
				return output.JSON(cmd.OutOrStdout(), out)
			}

			w := cmd.OutOrStdout()
			if out.Config != "" {
				fmt.Fprintf(w, "Config:  %s OK\n", out.Config)
			}
			for _, f := range out.Files {
				fmt.Fprintf(w, "Seed:    %s OK\n", f)
			}
			fmt.Fprintf(w, "Valid: %d collections, %d records\n", out.Collections, out.Records)
			return nil
		},
	}
	addSeedFlags(cmd)
	return cmd
}
