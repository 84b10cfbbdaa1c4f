package cliconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/odatamock/pkg/config"
)

// Tests in this file use t.Setenv and therefore do not run in parallel.

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvHost, EnvPort, EnvBasePath, EnvLogLevel, EnvLogFormat, EnvConfig, EnvSeed, EnvSynthSeed, EnvRateLimit} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	r, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, r.Path)
	assert.Equal(t, config.DefaultPort, r.Server.Port)
	assert.Equal(t, SourceDefault, r.Source("server.port"))
	assert.Empty(t, r.Keys())
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\n  host: 127.0.0.1\nlog:\n  level: debug\n"), 0o644))

	t.Setenv(EnvPort, "9100")
	t.Setenv(EnvSeed, "a/*.yaml, b/**/*.json")
	t.Setenv(EnvSynthSeed, "7")
	t.Setenv(EnvRateLimit, "not-a-number")

	r, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, r.Path)
	assert.Equal(t, 9100, r.Server.Port)
	assert.Equal(t, SourceEnv, r.Source("server.port"))
	assert.Equal(t, "127.0.0.1", r.Server.Host)
	assert.Equal(t, SourceFile, r.Source("server.host"))
	assert.Equal(t, SourceFile, r.Source("log.level"))
	assert.Equal(t, []string{"a/*.yaml", "b/**/*.json"}, r.Seed.Files)
	assert.Equal(t, uint64(7), r.Synthesis.Seed)
	assert.False(t, r.RateLimit.Enabled(), "unparseable values are ignored")
	assert.Equal(t, SourceDefault, r.Source("rateLimit.rps"))
}

func TestLoad_ConfigFromEnvAndLocal(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "odatamock.yaml"), []byte("server:\n  port: 8200\n"), 0o644))

	r, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8200, r.Server.Port)

	other := filepath.Join(dir, "other.json")
	require.NoError(t, os.WriteFile(other, []byte(`{"server":{"port":8300}}`), 0o644))
	t.Setenv(EnvConfig, other)

	r, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 8300, r.Server.Port)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, config.ErrFileNotFound)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{\n  \"server\": {\n    \"port\": ,\n  }\n}"), 0o644))
	_, err = Load(bad)
	var ce *ConfigError
	require.True(t, errors.As(err, &ce), "got %v", err)
	assert.Equal(t, 3, ce.Line)
	assert.ErrorIs(t, err, config.ErrInvalidJSON)

	t.Setenv(EnvPort, "99999")
	_, err = Load("")
	assert.Error(t, err, "environment values are validated")
}

func TestFindLineColumn(t *testing.T) {
	t.Parallel()

	data := []byte("ab\ncd\nef")
	line, col := FindLineColumn(data, 4)
	assert.Equal(t, 2, line)
	assert.Equal(t, 2, col)
}
