package dispatch

import (
	"context"

	"github.com/google/uuid"

	"cmuxterm/internal/corerr"
)

// setAppActive updates the app-active flag and, on a false→true transition,
// runs the "mark read" pass for the currently focused tuple (spec §4.3,
// §5: "the transition to active ... triggers at most one mark-read pass").
func (e *Engine) setAppActive(active bool) {
	e.mu.Lock()
	was := e.appActive
	e.appActive = active
	e.mu.Unlock()
	if active && !was {
		e.markReadForFocus()
	}
}

func (e *Engine) markReadForFocus() {
	id := e.topo.SystemIdentify("")
	if id.WorkspaceID != uuid.Nil {
		e.notifies.MarkReadForFocus(id.WorkspaceID, id.SurfaceID)
	}
}

func v1SetAppFocus(ctx context.Context, e *Engine, rest string) string {
	switch rest {
	case "active":
		e.setAppActive(true)
		return okLine("")
	case "inactive":
		e.setAppActive(false)
		return okLine("")
	case "clear":
		e.mu.Lock()
		e.appActive = true
		e.mu.Unlock()
		return okLine("")
	default:
		return errLine(corerr.New(corerr.InvalidArgument, "set_app_focus requires active, inactive or clear"))
	}
}

func v1SimulateAppActive(ctx context.Context, e *Engine, rest string) string {
	e.mu.Lock()
	e.appActive = true
	e.mu.Unlock()
	e.markReadForFocus()
	return okLine("")
}

func v1SetStatus(ctx context.Context, e *Engine, rest string) string {
	args, flags := tokenizeArgsFlags(rest)
	if len(args) < 2 {
		return errLine(missingArg("set_status requires <key> <value>"))
	}
	ws, err := e.resolveWorkspaceByHandle(flags["tab"])
	if err != nil {
		return errLine(err)
	}
	if err := e.topo.SetStatus(ws.Ref, args[0], args[1], flags["icon"], flags["color"]); err != nil {
		return errLine(err)
	}
	return okLine("")
}

func v1ClearStatus(ctx context.Context, e *Engine, rest string) string {
	args, flags := tokenizeArgsFlags(rest)
	if len(args) < 1 {
		return errLine(missingArg("clear_status requires <key>"))
	}
	ws, err := e.resolveWorkspaceByHandle(flags["tab"])
	if err != nil {
		return errLine(err)
	}
	if err := e.topo.ClearStatus(ws.Ref, args[0]); err != nil {
		return errLine(err)
	}
	return okLine("")
}
