package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/odatamock/pkg/openapi"
)

func newOpenAPICmd(g *globalFlags) *cobra.Command {
	var (
		format  string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document for the seeded collections",
		Long: `Print the OpenAPI 3 document describing every seeded collection and the
fixed operation endpoints. The same document is served at /openapi.json.`,
		Example: `  odatamock openapi > openapi.json
  odatamock openapi --format yaml -o openapi.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			seed, _, err := loadSeed(r)
			if err != nil {
				return err
			}

			doc := openapi.Build(openapi.Options{
				Version:     Version,
				BasePath:    r.Server.BasePath,
				Collections: seed.Names(),
			})
			if err := openapi.Validate(cmd.Context(), doc); err != nil {
				return fmt.Errorf("generated document is invalid: %w", err)
			}

			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding document: %w", err)
			}
			switch format {
			case "json":
			case "yaml", "yml":
				if data, err = jsonToYAML(data); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported format %q (use json or yaml)", format)
			}
			if data[len(data)-1] != '\n' {
				data = append(data, '\n')
			}

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, yaml)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().String("base-path", "", "Path prefix of the OData endpoints")
	addSeedFlags(cmd)
	return cmd
}

// jsonToYAML re-encodes a JSON document as YAML. Map keys come out sorted.
func jsonToYAML(data []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("converting to yaml: %w", err)
	}
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("converting to yaml: %w", err)
	}
	return out, nil
}
