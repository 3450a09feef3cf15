package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	assert.EqualValues(t, 6379, cfg.Port)
	assert.EqualValues(t, 1, cfg.NumDatabases)
	assert.EqualValues(t, 20, cfg.MaintenanceMaxSamples)
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.conf"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadParsesDirectives(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "respkv.conf")
	contents := "# comment\n" +
		"port 7000\n" +
		"\n" +
		"cleanup_interval_seconds 60\n" +
		"num_databases 16\n" +
		"bind 0.0.0.0\n" +
		"buffer_pool_base_size 1024\n" +
		"buffer_pool_buckets 10\n" +
		"maintenance_max_samples 50\n" +
		"log_level warn\n" +
		"unknown_directive foo\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.EqualValues(t, 7000, cfg.Port)
	assert.EqualValues(t, 60, cfg.CleanupIntervalSeconds)
	assert.EqualValues(t, 16, cfg.NumDatabases)
	assert.Equal(t, "0.0.0.0", cfg.Bind)
	assert.Equal(t, 1024, cfg.BufferPoolBaseSize)
	assert.Equal(t, 10, cfg.BufferPoolBuckets)
	assert.Equal(t, 50, cfg.MaintenanceMaxSamples)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadRejectsInvalidValue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "respkv.conf")
	require.NoError(t, os.WriteFile(path, []byte("port notanumber\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestParseFlagsOverridesDefaults(t *testing.T) {
	cfg := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	err := ParseFlags(fs, []string{"--port", "9999", "--log-level", "trace"}, cfg)
	require.NoError(t, err)

	assert.EqualValues(t, 9999, cfg.Port)
	assert.Equal(t, "trace", cfg.LogLevel)
	assert.EqualValues(t, 1, cfg.NumDatabases, "untouched flags keep their prior value")
}

func TestParseFlagsLoadsConfThenApplies(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "respkv.conf")
	require.NoError(t, os.WriteFile(path, []byte("port 7000\nnum_databases 4\n"), 0o644))

	cfg := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	err := ParseFlags(fs, []string{"--conf", path, "--port", "8000"}, cfg)
	require.NoError(t, err)

	assert.EqualValues(t, 8000, cfg.Port, "CLI flag wins over the conf file value")
	assert.EqualValues(t, 4, cfg.NumDatabases, "conf file value survives when no flag overrides it")
}
