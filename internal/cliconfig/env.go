package cliconfig

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names
const (
	EnvHost      = "ODATAMOCK_HOST"
	EnvPort      = "ODATAMOCK_PORT"
	EnvBasePath  = "ODATAMOCK_BASE_PATH"
	EnvLogLevel  = "ODATAMOCK_LOG_LEVEL"
	EnvLogFormat = "ODATAMOCK_LOG_FORMAT"
	EnvConfig    = "ODATAMOCK_CONFIG"
	EnvSeed      = "ODATAMOCK_SEED"
	EnvSynthSeed = "ODATAMOCK_SYNTH_SEED"
	EnvRateLimit = "ODATAMOCK_RATE_LIMIT"
)

// ApplyEnv overrides settings from environment variables. It only sets
// values that are present and parse.
func ApplyEnv(r *Resolved) {
	if v := os.Getenv(EnvHost); v != "" {
		r.Server.Host = v
		r.Set("server.host", SourceEnv)
	}

	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			r.Server.Port = port
			r.Set("server.port", SourceEnv)
		}
	}

	if v := os.Getenv(EnvBasePath); v != "" {
		r.Server.BasePath = v
		r.Set("server.basePath", SourceEnv)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		r.Log.Level = v
		r.Set("log.level", SourceEnv)
	}

	if v := os.Getenv(EnvLogFormat); v != "" {
		r.Log.Format = v
		r.Set("log.format", SourceEnv)
	}

	// ODATAMOCK_SEED is a comma-separated list of glob patterns
	if v := os.Getenv(EnvSeed); v != "" {
		r.Seed.Files = splitList(v)
		r.Set("seed.files", SourceEnv)
	}

	if v := os.Getenv(EnvSynthSeed); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			r.Synthesis.Seed = seed
			r.Set("synthesis.seed", SourceEnv)
		}
	}

	if v := os.Getenv(EnvRateLimit); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil {
			r.RateLimit.RPS = rps
			r.Set("rateLimit.rps", SourceEnv)
		}
	}
}

// ConfigPathFromEnv returns the config file named by ODATAMOCK_CONFIG.
func ConfigPathFromEnv() string {
	return os.Getenv(EnvConfig)
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
