package dispatch

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"cmuxterm/internal/corerr"
)

// v1ClaudeHook backs the CLI's `claude-hook <session-start|stop|notification>`
// special verb (spec §4.9, §4.10): the CLI forwards the parsed stdin JSON as
// one RPC rather than issuing the status/notification RPCs itself, so the
// classification and suppression logic in internal/claudehook runs once,
// in-process with the topology and session stores it needs.
func v1ClaudeHook(ctx context.Context, e *Engine, rest string) string {
	event, payloadJSON, ok := cutField(rest)
	if !ok {
		return errLine(missingArg("claude_hook requires <event> <payload>"))
	}
	var payload map[string]any
	if payloadJSON != "" {
		if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
			return errLine(corerr.New(corerr.ParseError, "malformed claude hook payload: %s", err))
		}
	}
	id := e.topo.SystemIdentify("")
	if id.WorkspaceID == uuid.Nil {
		return errLine(corerr.New(corerr.NotFound, "no current workspace"))
	}
	var err error
	switch event {
	case "session-start":
		err = e.hook.SessionStart(id.WorkspaceID, id.SurfaceID, payload)
	case "stop":
		err = e.hook.Stop(id.WorkspaceID, id.SurfaceID, payload)
	case "notification":
		err = e.hook.Notification(id.WorkspaceID, id.SurfaceID, payload)
	default:
		return errLine(missingArg("claude_hook event must be session-start, stop or notification"))
	}
	if err != nil {
		return errLine(err)
	}
	return okLine("")
}
