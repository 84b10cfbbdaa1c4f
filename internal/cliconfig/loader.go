package cliconfig

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/getmockd/odatamock/pkg/config"
)

// LocalConfigFileNames are probed in the working directory when no config
// file is named explicitly.
var LocalConfigFileNames = []string{"odatamock.yaml", "odatamock.yml", "odatamock.json"}

// FindLocalConfig searches the current directory for a config file.
// It returns an empty string when there is none.
func FindLocalConfig() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for _, name := range LocalConfigFileNames {
		path := filepath.Join(cwd, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// ConfigError represents a configuration file error with location info.
type ConfigError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return e.Path + " (line " + strconv.Itoa(e.Line) + ", column " + strconv.Itoa(e.Column) + "): " + e.Message
	}
	return e.Path + ": " + e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// FindLineColumn finds the line and column number for a byte offset.
func FindLineColumn(data []byte, offset int64) (line, col int) {
	line = 1
	col = 1
	for i := int64(0); i < offset && int(i) < len(data); i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// LoadFile reads a config file and reports JSON syntax errors with their
// line and column.
func LoadFile(path string) (*config.ServerConfig, error) {
	cfg, err := config.LoadFromFile(path)
	if err == nil {
		return cfg, nil
	}

	var se *json.SyntaxError
	if errors.As(err, &se) {
		data, readErr := os.ReadFile(path)
		if readErr == nil {
			line, col := FindLineColumn(data, se.Offset)
			return nil, &ConfigError{Path: path, Line: line, Column: col, Message: se.Error(), Err: err}
		}
	}
	return nil, err
}

// Load resolves the configuration from defaults, the config file and the
// environment. An explicit path that does not exist is an error; a missing
// local config file is not. Flags are applied afterwards by the caller.
func Load(explicitPath string) (*Resolved, error) {
	r := &Resolved{ServerConfig: config.Default(), Sources: make(map[string]string)}

	path := explicitPath
	if path == "" {
		path = ConfigPathFromEnv()
	}
	if path == "" {
		local, err := FindLocalConfig()
		if err != nil {
			return nil, err
		}
		path = local
	}

	if path != "" {
		cfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		markFileSources(r, cfg)
		r.ServerConfig = cfg
		r.Path = path
	}

	ApplyEnv(r)

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// markFileSources records every setting the file changed from its default.
func markFileSources(r *Resolved, cfg *config.ServerConfig) {
	def := config.Default()
	mark := func(key string, changed bool) {
		if changed {
			r.Set(key, SourceFile)
		}
	}
	mark("server.host", cfg.Server.Host != def.Server.Host)
	mark("server.port", cfg.Server.Port != def.Server.Port)
	mark("server.basePath", cfg.Server.BasePath != def.Server.BasePath)
	mark("server.readTimeout", cfg.Server.ReadTimeout != def.Server.ReadTimeout)
	mark("server.writeTimeout", cfg.Server.WriteTimeout != def.Server.WriteTimeout)
	mark("server.maxBodyBytes", cfg.Server.MaxBodyBytes != def.Server.MaxBodyBytes)
	mark("log.level", cfg.Log.Level != def.Log.Level)
	mark("log.format", cfg.Log.Format != def.Log.Format)
	mark("log.file", cfg.Log.File != def.Log.File)
	mark("seed.builtin", cfg.Seed.Builtin != def.Seed.Builtin)
	mark("seed.files", len(cfg.Seed.Files) > 0)
	mark("synthesis.seed", cfg.Synthesis.Seed != def.Synthesis.Seed)
	mark("rateLimit.rps", cfg.RateLimit.RPS != def.RateLimit.RPS)
	mark("rateLimit.burst", cfg.RateLimit.Burst != def.RateLimit.Burst)
	mark("keySchemas", len(cfg.KeySchemas) > 0)
}
