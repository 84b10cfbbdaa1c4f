package cliconfig

import (
	"maps"
	"slices"

	"github.com/getmockd/odatamock/pkg/config"
)

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Resolved is a fully layered configuration.
type Resolved struct {
	*config.ServerConfig

	// Path is the config file that was read, if any.
	Path string

	// Sources maps a setting key such as "server.port" to its ConfigSource.
	// Keys that are absent came from defaults.
	Sources map[string]string
}

// Source returns where a setting came from.
func (r *Resolved) Source(key string) string {
	if s, ok := r.Sources[key]; ok {
		return s
	}
	return SourceDefault
}

// Set records the source of a setting.
func (r *Resolved) Set(key, source string) {
	if r.Sources == nil {
		r.Sources = make(map[string]string)
	}
	r.Sources[key] = source
}

// Keys returns every setting key with a non-default source, sorted.
func (r *Resolved) Keys() []string {
	return slices.Sorted(maps.Keys(r.Sources))
}
