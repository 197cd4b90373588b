package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":6001", cfg.ListenAddress)
	require.Equal(t, ":8080", cfg.RPCAddress)
	require.NotEmpty(t, cfg.SystemKey)

	reloaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.SystemKey, reloaded.SystemKey)
}

func TestLoadFillsMissingSystemKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := "ListenAddress = \":7001\"\nRPCAddress = \":9090\"\nDataDir = \"./data\"\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":7001", cfg.ListenAddress)
	require.NotEmpty(t, cfg.SystemKey)
}
