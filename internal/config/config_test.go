package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newConfigPathForTest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	original := userHomeDirFn
	userHomeDirFn = func() (string, error) { return home, nil }
	t.Cleanup(func() { userHomeDirFn = original })
	return DefaultPath()
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, DefaultSocketPath, cfg.SocketPath)
	require.Equal(t, AccessFull, cfg.AccessMode)
	require.Equal(t, DefaultCLIResponseTimeoutSec, cfg.CLIResponseTimeoutSec)
	require.NotEmpty(t, cfg.ClaudeHookStatePath)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	path := newConfigPathForTest(t)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := newConfigPathForTest(t)
	cfg := DefaultConfig()
	cfg.SocketPath = "/tmp/custom.sock"
	cfg.AccessMode = AccessNotificationsOnly

	saved, err := Save(path, cfg)
	require.NoError(t, err)
	require.Equal(t, "/tmp/custom.sock", saved.SocketPath)

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, saved, loaded)
}

func TestSaveRejectsInvalidAccessMode(t *testing.T) {
	path := newConfigPathForTest(t)
	cfg := DefaultConfig()
	cfg.AccessMode = "allowAll"

	_, err := Save(path, cfg)
	require.Error(t, err)
}

func TestSaveRejectsPathOutsideConfigDir(t *testing.T) {
	newConfigPathForTest(t)
	outside := filepath.Join(t.TempDir(), "elsewhere", "config.yaml")

	_, err := Save(outside, DefaultConfig())
	require.Error(t, err)
}

func TestEnsureFileCreatesDefaults(t *testing.T) {
	path := newConfigPathForTest(t)
	cfg, err := EnsureFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)

	_, err = Load(path)
	require.NoError(t, err)
}

func TestApplyDefaultsFillsZeroFields(t *testing.T) {
	cfg := Config{SocketPath: "/tmp/x.sock"}
	err := applyDefaultsAndValidate(&cfg)
	require.NoError(t, err)
	require.Equal(t, AccessFull, cfg.AccessMode)
	require.Equal(t, DefaultCLIResponseTimeoutSec, cfg.CLIResponseTimeoutSec)
}

func TestPathWithinDir(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "config")

	require.True(t, pathWithinDir(dir, dir))
	require.True(t, pathWithinDir(filepath.Join(dir, "config.yaml"), dir))
	require.False(t, pathWithinDir(filepath.Join(base, "other", "config.yaml"), dir))
	require.False(t, pathWithinDir(filepath.Join(dir, "..", "escape.yaml"), dir))
}
