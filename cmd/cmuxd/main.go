// Command cmuxd is the host stand-in binary: it wires the Topology Store,
// Notification Store, Browser Adapter, Claude Hook flow and Command
// Dispatcher to a Unix socket server and runs until signaled. It
// generalizes the teacher's main.go (which wires the same core collaborators
// to a Wails window via wails.Run) to a plain signal.NotifyContext run loop,
// since there is no GUI shell in scope here (spec §1: "the GUI shell" is an
// external collaborator).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cmuxterm/internal/browser"
	"cmuxterm/internal/claudehook"
	"cmuxterm/internal/config"
	"cmuxterm/internal/dispatch"
	"cmuxterm/internal/hooksession"
	"cmuxterm/internal/noophost"
	"cmuxterm/internal/notify"
	"cmuxterm/internal/ptyhost"
	"cmuxterm/internal/socketserver"
	"cmuxterm/internal/topology"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("cmuxd", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultPath(), "path to cmuxterm's config file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logs := slog.Default()

	cfg, err := config.EnsureFile(*configPath)
	if err != nil {
		logs.Warn("[cmuxd] failed to load config, using defaults", "error", err)
		cfg = config.DefaultConfig()
	}
	if v := strings.TrimSpace(os.Getenv("CMUX_SOCKET_PATH")); v != "" {
		cfg.SocketPath = v
	}
	if v := strings.TrimSpace(os.Getenv("CMUX_CLAUDE_HOOK_STATE_PATH")); v != "" {
		cfg.ClaudeHookStatePath = v
	}

	srv, closers, err := buildServer(cfg, logs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cmuxd:", err)
		return 1
	}
	defer closers()

	if err := srv.Start(); err != nil {
		fmt.Fprintln(os.Stderr, "cmuxd: failed to start socket server:", err)
		return 1
	}
	logs.Info("[cmuxd] listening", "socket", srv.SocketPath(), "access_mode", cfg.AccessMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logs.Info("[cmuxd] shutting down")
	srv.Stop()
	return 0
}

// buildServer wires every collaborator named in spec.md §4 into a ready-to-
// start socketserver.Server, split out from run() so tests can exercise the
// real wiring without going through flag parsing or the signal-driven
// shutdown loop.
func buildServer(cfg config.Config, logs *slog.Logger) (*socketserver.Server, func(), error) {
	sessions, err := hooksession.New(cfg.ClaudeHookStatePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open claude hook session store: %w", err)
	}

	topo := topology.NewStore(logs)
	notifies := notify.NewStore()
	browserAdapter := browser.New(topo, noophost.NewBrowser(logs))
	hook := claudehook.New(topo, notifies, sessions)
	terminal := ptyhost.New(logs)

	engine := dispatch.New(topo, notifies, browserAdapter, hook, sessions, terminal, cfg.AccessMode)

	idleTimeout := time.Duration(cfg.ClientIdleTimeoutSec * float64(time.Second))
	srv := socketserver.New(cfg.SocketPath, engine, cfg.MaxFrameBytes, idleTimeout)
	return srv, topo.Close, nil
}
