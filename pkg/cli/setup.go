package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/odatamock/internal/cliconfig"
	"github.com/getmockd/odatamock/pkg/config"
	"github.com/getmockd/odatamock/pkg/logging"
)

// flagBinding copies a changed flag onto the configuration.
type flagBinding struct {
	flag  string
	key   string
	apply func(cmd *cobra.Command, cfg *config.ServerConfig) error
}

var flagBindings = []flagBinding{
	{"host", "server.host", func(cmd *cobra.Command, cfg *config.ServerConfig) (err error) {
		cfg.Server.Host, err = cmd.Flags().GetString("host")
		return err
	}},
	{"port", "server.port", func(cmd *cobra.Command, cfg *config.ServerConfig) (err error) {
		cfg.Server.Port, err = cmd.Flags().GetInt("port")
		return err
	}},
	{"base-path", "server.basePath", func(cmd *cobra.Command, cfg *config.ServerConfig) (err error) {
		cfg.Server.BasePath, err = cmd.Flags().GetString("base-path")
		return err
	}},
	{"log-level", "log.level", func(cmd *cobra.Command, cfg *config.ServerConfig) (err error) {
		cfg.Log.Level, err = cmd.Flags().GetString("log-level")
		return err
	}},
	{"log-format", "log.format", func(cmd *cobra.Command, cfg *config.ServerConfig) (err error) {
		cfg.Log.Format, err = cmd.Flags().GetString("log-format")
		return err
	}},
	{"log-file", "log.file", func(cmd *cobra.Command, cfg *config.ServerConfig) (err error) {
		cfg.Log.File, err = cmd.Flags().GetString("log-file")
		return err
	}},
	{"seed", "seed.files", func(cmd *cobra.Command, cfg *config.ServerConfig) (err error) {
		cfg.Seed.Files, err = cmd.Flags().GetStringSlice("seed")
		return err
	}},
	{"no-builtin", "seed.builtin", func(cmd *cobra.Command, cfg *config.ServerConfig) error {
		off, err := cmd.Flags().GetBool("no-builtin")
		cfg.Seed.Builtin = !off
		return err
	}},
	{"synth-seed", "synthesis.seed", func(cmd *cobra.Command, cfg *config.ServerConfig) (err error) {
		cfg.Synthesis.Seed, err = cmd.Flags().GetUint64("synth-seed")
		return err
	}},
	{"rate-limit", "rateLimit.rps", func(cmd *cobra.Command, cfg *config.ServerConfig) (err error) {
		cfg.RateLimit.RPS, err = cmd.Flags().GetFloat64("rate-limit")
		return err
	}},
	{"rate-burst", "rateLimit.burst", func(cmd *cobra.Command, cfg *config.ServerConfig) (err error) {
		cfg.RateLimit.Burst, err = cmd.Flags().GetInt("rate-burst")
		return err
	}},
}

// addSeedFlags registers the flags every seed-reading command accepts.
func addSeedFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("seed", nil, "Seed fixture glob pattern (repeatable, ** supported)")
	cmd.Flags().Bool("no-builtin", false, "Do not load the builtin SuccessFactors fixture")
}

// loadConfig resolves the configuration for cmd and applies changed flags.
func loadConfig(cmd *cobra.Command, g *globalFlags) (*cliconfig.Resolved, error) {
	r, err := cliconfig.Load(g.configPath)
	if err != nil {
		return nil, err
	}

	for _, b := range flagBindings {
		f := cmd.Flags().Lookup(b.flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := b.apply(cmd, r.ServerConfig); err != nil {
			return nil, fmt.Errorf("flag --%s: %w", b.flag, err)
		}
		r.Set(b.key, cliconfig.SourceFlag)
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// loadSeed reads the builtin fixture and configured seed files. Patterns
// from the config file resolve against its directory; patterns from flags
// or the environment resolve against the working directory.
func loadSeed(r *cliconfig.Resolved) (config.Seed, []string, error) {
	baseDir := config.BaseDir("")
	if r.Source("seed.files") == cliconfig.SourceFile {
		baseDir = config.BaseDir(r.Path)
	}
	return config.LoadConfiguredSeed(r.Seed, baseDir)
}

// newLogger builds the operational logger. When a log file is configured,
// a JSON copy of every record is appended to it; the returned closer
// closes that file.
func newLogger(cfg config.LogConfig, out io.Writer) (*slog.Logger, io.Closer, error) {
	lc := logging.Config{
		Level:  logging.ParseLevel(cfg.Level),
		Format: logging.ParseFormat(cfg.Format),
		Output: out,
	}

	var closer io.Closer = io.NopCloser(nil)
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		lc.Mirror = f
		closer = f
	}
	return logging.New(lc), closer, nil
}
