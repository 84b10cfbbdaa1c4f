package config

import (
	"net"
	"strconv"

	"github.com/getmockd/odatamock/pkg/keyschema"
)

// Default values.
const (
	DefaultHost         = "0.0.0.0"
	DefaultPort         = 8000
	DefaultBasePath     = "/successfactors/odata/v2"
	DefaultReadTimeout  = 30
	DefaultWriteTimeout = 30
	DefaultMaxBodyBytes = 1 << 20
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultRateBurst    = 50
)

// ServerConfig is the complete configuration of a server process.
type ServerConfig struct {
	Server     ServerSection                 `json:"server" yaml:"server"`
	Log        LogConfig                     `json:"log" yaml:"log"`
	Seed       SeedConfig                    `json:"seed" yaml:"seed"`
	Synthesis  SynthesisConfig               `json:"synthesis" yaml:"synthesis"`
	RateLimit  RateLimitConfig               `json:"rateLimit" yaml:"rateLimit"`
	KeySchemas map[string]keyschema.Override `json:"keySchemas,omitempty" yaml:"keySchemas,omitempty"`
}

// ServerSection configures the HTTP listener.
type ServerSection struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	BasePath string `json:"basePath" yaml:"basePath"`

	// ReadTimeout and WriteTimeout are in seconds.
	ReadTimeout  int `json:"readTimeout" yaml:"readTimeout"`
	WriteTimeout int `json:"writeTimeout" yaml:"writeTimeout"`

	MaxBodyBytes int64 `json:"maxBodyBytes" yaml:"maxBodyBytes"`
}

// Addr returns host:port.
func (s ServerSection) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
	// File, when set, receives a JSON copy of every log record.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// SeedConfig selects the fixture data loaded at startup.
type SeedConfig struct {
	// Builtin loads the embedded SuccessFactors fixture.
	Builtin bool `json:"builtin" yaml:"builtin"`
	// Files are glob patterns of additional seed documents, relative to the
	// config file's directory.
	Files []string `json:"files,omitempty" yaml:"files,omitempty"`
}

// SynthesisConfig configures record synthesis.
type SynthesisConfig struct {
	// Seed makes synthesized ids and values reproducible. Zero is random.
	Seed uint64 `json:"seed" yaml:"seed"`
}

// RateLimitConfig configures per-client request limiting.
type RateLimitConfig struct {
	// RPS is the sustained requests per second per client IP. Zero disables limiting.
	RPS   float64 `json:"rps" yaml:"rps"`
	Burst int     `json:"burst" yaml:"burst"`
}

// Enabled reports whether rate limiting is on.
func (r RateLimitConfig) Enabled() bool {
	return r.RPS > 0
}

// Default returns a configuration with every default applied.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Host:         DefaultHost,
			Port:         DefaultPort,
			BasePath:     DefaultBasePath,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Seed: SeedConfig{
			Builtin: true,
		},
		RateLimit: RateLimitConfig{
			Burst: DefaultRateBurst,
		},
	}
}
