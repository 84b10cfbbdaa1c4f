package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	jsonOutput bool
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "odatamock",
		Short: "odatamock emulates the SAP SuccessFactors OData v2 API in memory",
		Long: `odatamock serves an in-memory catalog of SuccessFactors-style entity sets
over OData v2 addressing: listing, single and composite key reads, create,
update and delete. Keyed reads that match nothing return a plausible
synthesized record instead of 404.

Configuration can be provided via flags, ODATAMOCK_* environment variables,
or a YAML/JSON configuration file (--config, ODATAMOCK_CONFIG, or
./odatamock.yaml).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Path to configuration file")
	root.PersistentFlags().BoolVar(&g.jsonOutput, "json", false, "Output command results in JSON format")

	root.AddCommand(
		newServeCmd(g),
		newCollectionsCmd(g),
		newOpenAPICmd(g),
		newValidateCmd(g),
		newConfigCmd(g),
		newVersionCmd(g),
	)
	return root
}

// Execute runs the CLI until the command finishes or SIGINT/SIGTERM arrives.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
