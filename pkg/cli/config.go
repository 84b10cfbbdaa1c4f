package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/odatamock/pkg/cli/internal/output"
	"github.com/getmockd/odatamock/pkg/config"
)

// ConfigOutput is the JSON form of the config command.
type ConfigOutput struct {
	Path    string               `json:"path,omitempty"`
	Config  *config.ServerConfig `json:"config"`
	Sources map[string]string    `json:"sources"`
}

func newConfigCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Long: `Show the configuration odatamock would run with after layering the config
file, ODATAMOCK_* environment variables and defaults, followed by the
source of every value that is not a default.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}

			if g.jsonOutput {
				sources := make(map[string]string, len(r.Sources))
				for _, k := range r.Keys() {
					sources[k] = r.Source(k)
				}
				return output.JSON(cmd.OutOrStdout(), ConfigOutput{
					Path:    r.Path,
					Config:  r.ServerConfig,
					Sources: sources,
				})
			}

			data, err := config.ToYAML(r.ServerConfig)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if r.Path != "" {
				fmt.Fprintf(w, "# config file: %s\n", r.Path)
			}
			if _, err := w.Write(data); err != nil {
				return err
			}

			keys := r.Keys()
			if len(keys) == 0 {
				fmt.Fprintln(w, "\n# all values are defaults")
				return nil
			}
			fmt.Fprintln(w)
			tw := output.Table(w)
			fmt.Fprintln(tw, "SETTING\tSOURCE")
			for _, k := range keys {
				fmt.Fprintf(tw, "%s\t%s\n", k, r.Source(k))
			}
			return tw.Flush()
		},
	}
}
