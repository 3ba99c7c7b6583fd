package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/rumm/internal/config"
)

func TestLoadProjectConfigMissingFileReturnsDefault(t *testing.T) {
	cfg, err := config.LoadProjectConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, config.DefaultProjectConfig(), cfg)
}

func TestLoadProjectConfigParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rumm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
script_paths:
  - scripts
  - lib
database: facts.db
trace_dir: out/trace
`), 0o644))

	cfg, err := config.LoadProjectConfig(path)
	require.NoError(t, err)
	require.Equal(t, []string{"scripts", "lib"}, cfg.ScriptPaths)
	require.Equal(t, "facts.db", cfg.Database)
	require.Equal(t, "out/trace", cfg.TraceDir)
}

func TestTrimAndHasSourceExt(t *testing.T) {
	require.True(t, config.HasSourceExt("foo.rmm"))
	require.False(t, config.HasSourceExt("foo.txt"))
	require.Equal(t, "foo", config.TrimSourceExt("foo.rmm"))
	require.Equal(t, "foo.txt", config.TrimSourceExt("foo.txt"))
}
