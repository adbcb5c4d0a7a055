package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cmuxterm/internal/config"
	"cmuxterm/internal/socketserver"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.SocketPath = filepath.Join(dir, "cmux.sock")
	cfg.ClaudeHookStatePath = filepath.Join(dir, "claude-hook-sessions.json")
	return cfg
}

func TestBuildServerRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	srv, closeAll, err := buildServer(cfg, slog.Default())
	require.NoError(t, err)
	defer closeAll()

	require.NoError(t, srv.Start())
	defer srv.Stop()

	resp, err := socketserver.Send(cfg.SocketPath, "list_windows", time.Second)
	require.NoError(t, err)
	require.NotContains(t, resp, "Unknown command")
}

func TestBuildServerRejectsBadHookStatePath(t *testing.T) {
	cfg := testConfig(t)

	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o600))
	cfg.ClaudeHookStatePath = filepath.Join(blocker, "nested", "state.json")

	_, _, err := buildServer(cfg, slog.Default())
	require.Error(t, err)
}
