package cli

import (
	"github.com/spf13/cobra"

	"github.com/getmockd/odatamock/pkg/catalog"
	"github.com/getmockd/odatamock/pkg/config"
	"github.com/getmockd/odatamock/pkg/engine"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the OData mock server in the foreground",
		Long: `Run the OData mock server in the foreground until interrupted.

The catalog is seeded from the builtin SuccessFactors fixture plus any
--seed files. All changes are held in memory and lost on exit; use
POST /__admin/reset to restore the seed without restarting.`,
		Example: `  # Start with defaults on :8000
  odatamock serve

  # Custom port, extra fixtures, deterministic synthesis
  odatamock serve --port 9000 --seed 'fixtures/**/*.yaml' --synth-seed 42

  # Only your own fixtures, rate limited to 20 rps per client
  odatamock serve --no-builtin --seed data.json --rate-limit 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, g)
		},
	}

	f := cmd.Flags()
	f.String("host", config.DefaultHost, "Address to bind")
	f.IntP("port", "p", config.DefaultPort, "Port to listen on")
	f.String("base-path", config.DefaultBasePath, "Path prefix of the OData endpoints")
	f.Uint64("synth-seed", 0, "Seed for synthesized ids and values (0 = random)")
	f.String("log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	f.String("log-format", config.DefaultLogFormat, "Log format (text, json)")
	f.String("log-file", "", "Append a JSON copy of every log record to this file")
	f.Float64("rate-limit", 0, "Requests per second per client IP (0 = unlimited)")
	f.Int("rate-burst", 0, "Rate limit burst size (default 2x rate)")
	addSeedFlags(cmd)
	return cmd
}

func runServe(cmd *cobra.Command, g *globalFlags) error {
	r, err := loadConfig(cmd, g)
	if err != nil {
		return err
	}

	log, closer, err := newLogger(r.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closer.Close()

	if r.Path != "" {
		log.Info("loaded config", "path", r.Path)
	}

	seed, sources, err := loadSeed(r)
	if err != nil {
		return err
	}
	log.Info("loaded seed",
		"collections", len(seed),
		"records", seed.RecordCount(),
		"builtin", r.Seed.Builtin,
		"files", sources,
	)

	cat := catalog.New()
	cat.Load(seed)

	srv := engine.NewServer(r.ServerConfig, cat,
		engine.WithLogger(log),
		engine.WithVersion(Version),
	)
	return srv.Run(cmd.Context())
}
