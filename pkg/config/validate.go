package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/getmockd/odatamock/pkg/keyschema"
	"github.com/getmockd/odatamock/pkg/logging"
)

// ValidationError is a single configuration problem.
type ValidationError struct {
	Path    string // e.g. "server.port"
	Message string
}

func (e *ValidationError) Error() string {
	return e.Path + ": " + e.Message
}

// Validate checks the configuration and returns every problem found, joined.
func (c *ServerConfig) Validate() error {
	var errs []error
	add := func(path, format string, args ...any) {
		errs = append(errs, &ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		add("server.port", "invalid port %d, must be 0-65535", c.Server.Port)
	}
	if c.Server.BasePath != "" && !strings.HasPrefix(c.Server.BasePath, "/") {
		add("server.basePath", "must start with /")
	}
	if c.Server.ReadTimeout < 0 {
		add("server.readTimeout", "must not be negative")
	}
	if c.Server.WriteTimeout < 0 {
		add("server.writeTimeout", "must not be negative")
	}
	if c.Server.MaxBodyBytes < 0 {
		add("server.maxBodyBytes", "must not be negative")
	}
	if c.Log.Level != "" && !logging.ValidLevel(c.Log.Level) {
		add("log.level", "unknown level %q", c.Log.Level)
	}
	if f := strings.ToLower(c.Log.Format); f != "" && f != "text" && f != "json" {
		add("log.format", "unknown format %q, expected text or json", c.Log.Format)
	}
	if c.RateLimit.RPS < 0 {
		add("rateLimit.rps", "must not be negative")
	}
	if c.RateLimit.Enabled() && c.RateLimit.Burst < 1 {
		add("rateLimit.burst", "must be at least 1 when rate limiting is enabled")
	}
	for name, o := range c.KeySchemas {
		validateOverride("keySchemas."+name, o, add)
	}

	return errors.Join(errs...)
}

func validateOverride(path string, o keyschema.Override, add func(string, string, ...any)) {
	if n := len(o.Pair); n != 0 && n != 2 {
		add(path+".pair", "must list exactly 2 fields, got %d", n)
	}
	if n := len(o.Triple); n != 0 && n != 3 {
		add(path+".triple", "must list exactly 3 fields, got %d", n)
	}
	for i, f := range append(append([]keyschema.Field{}, o.Pair...), o.Triple...) {
		if f.Name == "" {
			add(path, "key field %d has no name", i)
		}
		if f.Type != "" && f.Type != keyschema.TypeString && f.Type != keyschema.TypeInteger {
			add(path, "field %q has unknown type %q", f.Name, f.Type)
		}
	}
}
