// Package dispatch implements the Command Dispatcher (C5): the v1 line
// protocol and v2 JSON-RPC surfaces that front the Topology Store,
// Notification Store, Browser Adapter and Claude Hook flow, generalizing
// the teacher's CommandRouter (internal/tmux/command_router.go) from a
// single tmux-shim verb table to cmuxterm's dual v1/v2 protocol plus
// access-mode gating (spec §4.5).
package dispatch

import (
	"context"
	"strings"
	"sync"

	"cmuxterm/internal/browser"
	"cmuxterm/internal/claudehook"
	"cmuxterm/internal/config"
	"cmuxterm/internal/corerr"
	"cmuxterm/internal/hooksession"
	"cmuxterm/internal/hostiface"
	"cmuxterm/internal/notify"
	"cmuxterm/internal/topology"
)

// Engine dispatches v1 and v2 requests against the core collaborators.
// Handlers never mutate topology directly; every call goes through the
// Store's own scheduler, so Engine itself holds no topology state — only
// the app-focus flag and the access mode are its own.
type Engine struct {
	topo     *topology.Store
	notifies *notify.Store
	browser  *browser.Adapter
	hook     *claudehook.Engine
	sessions *hooksession.Store
	terminal hostiface.TerminalHost

	mu         sync.Mutex
	accessMode config.AccessMode
	appActive  bool

	v1handlers map[string]v1Handler
	v2handlers map[string]v2Handler
}

type v1Handler func(ctx context.Context, e *Engine, rest string) string

type v2Handler func(ctx context.Context, e *Engine, params map[string]any) (any, error)

// New creates an Engine wired to every collaborator it dispatches into.
func New(
	topo *topology.Store,
	notifies *notify.Store,
	browserAdapter *browser.Adapter,
	hook *claudehook.Engine,
	sessions *hooksession.Store,
	terminal hostiface.TerminalHost,
	accessMode config.AccessMode,
) *Engine {
	e := &Engine{
		topo:       topo,
		notifies:   notifies,
		browser:    browserAdapter,
		hook:       hook,
		sessions:   sessions,
		terminal:   terminal,
		accessMode: accessMode,
		appActive:  true,
	}
	e.v1handlers = v1Table()
	e.v2handlers = v2Table()
	return e
}

// AccessMode returns the current access mode.
func (e *Engine) AccessMode() config.AccessMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.accessMode
}

// SetAccessMode updates the access mode at runtime (e.g. on config reload).
func (e *Engine) SetAccessMode(mode config.AccessMode) {
	e.mu.Lock()
	e.accessMode = mode
	e.mu.Unlock()
}

// HandleLine dispatches one newline-framed request: a JSON object is
// treated as v2, anything else as v1 (spec §4.5).
func (e *Engine) HandleLine(ctx context.Context, line string) string {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "{") {
		return e.handleV2(ctx, trimmed)
	}
	return e.handleV1(ctx, trimmed)
}

func (e *Engine) handleV1(ctx context.Context, line string) string {
	verb, rest, _ := strings.Cut(line, " ")
	verb = strings.TrimSpace(verb)
	rest = strings.TrimSpace(rest)
	if verb == "" {
		return errLine(corerr.New(corerr.ParseError, "empty command"))
	}
	if !isAllowedV1(e.AccessMode(), verb) {
		return errLine(corerr.New(corerr.PermissionDenied, "%s is not permitted by the current access mode", verb))
	}
	handler, ok := e.v1handlers[verb]
	if !ok {
		return "ERROR: Unknown command"
	}
	return handler(ctx, e, rest)
}
