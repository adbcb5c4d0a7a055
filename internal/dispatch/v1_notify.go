package dispatch

import (
	"context"

	"github.com/google/uuid"

	"cmuxterm/internal/corerr"
)

func v1Notify(ctx context.Context, e *Engine, rest string) string {
	id := e.topo.SystemIdentify("")
	if id.WorkspaceID == uuid.Nil {
		return errLine(corerr.New(corerr.NotFound, "no current workspace"))
	}
	title, subtitle, body := splitPayload(rest)
	e.notifies.Add(id.WorkspaceID, id.SurfaceID, title, subtitle, body)
	return okLine("")
}

func v1NotifySurface(ctx context.Context, e *Engine, rest string) string {
	handle, payload, ok := cutField(rest)
	if !ok {
		return errLine(missingArg("notify_surface requires <h> <payload>"))
	}
	ws, sfc, err := e.findSurface(handle)
	if err != nil {
		return errLine(err)
	}
	title, subtitle, body := splitPayload(payload)
	e.notifies.Add(ws.ID, sfc.ID, title, subtitle, body)
	return okLine("")
}

func v1NotifyTarget(ctx context.Context, e *Engine, rest string) string {
	wsHandle, tail, ok := cutField(rest)
	if !ok {
		return errLine(missingArg("notify_target requires <ws> <surface> <payload>"))
	}
	surfaceHandle, payload, ok := cutField(tail)
	if !ok {
		return errLine(missingArg("notify_target requires <ws> <surface> <payload>"))
	}
	ws, err := e.resolveWorkspaceByHandle(wsHandle)
	if err != nil {
		return errLine(err)
	}
	surfaces, err := e.topo.SurfaceList(ws.Ref)
	if err != nil {
		return errLine(err)
	}
	var surfaceID uuid.UUID
	for _, s := range surfaces {
		if matchesHandle(s.Ref, s.ID, surfaceHandle) {
			surfaceID = s.ID
			break
		}
	}
	if surfaceID == uuid.Nil && surfaceHandle != "" {
		return errLine(corerr.New(corerr.NotFound, "surface %q not found in workspace %q", surfaceHandle, wsHandle))
	}
	title, subtitle, body := splitPayload(payload)
	e.notifies.Add(ws.ID, surfaceID, title, subtitle, body)
	return okLine("")
}

func v1ListNotifications(ctx context.Context, e *Engine, rest string) string {
	list := e.notifies.List()
	if len(list) == 0 {
		return "No notifications"
	}
	lines := make([]string, len(list))
	for i, n := range list {
		marker := " "
		if !n.IsRead {
			marker = "*"
		}
		lines[i] = marker + " " + n.ID.String() + " " + n.Title + ": " + n.Subtitle + " — " + n.Body
	}
	return joinLines(lines)
}

func v1ClearNotifications(ctx context.Context, e *Engine, rest string) string {
	e.notifies.ClearAll()
	return okLine("")
}
