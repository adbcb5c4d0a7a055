package dispatch

import (
	"strconv"

	"github.com/google/uuid"

	"cmuxterm/internal/corerr"
	"cmuxterm/internal/model"
	"cmuxterm/internal/splittree"
)

// parseDirection maps a `new_split`/`drag_surface_to_split` direction
// argument to a split orientation and which side the new pane occupies
// (spec §6): left/up insert before the original, right/down insert after.
func parseDirection(dir string) (splittree.Orientation, bool, error) {
	switch dir {
	case "left":
		return splittree.Vertical, true, nil
	case "right":
		return splittree.Vertical, false, nil
	case "up":
		return splittree.Horizontal, true, nil
	case "down":
		return splittree.Horizontal, false, nil
	default:
		return "", false, corerr.New(corerr.InvalidArgument, "unknown direction %q (want left, right, up or down)", dir)
	}
}

func matchesHandle(ref string, id uuid.UUID, handle string) bool {
	return handle != "" && (ref == handle || id.String() == handle)
}

// resolveWorkspaceByHandle resolves a workspace handle across every window,
// since the v1 status/notify verbs address a workspace directly rather than
// through a window-scoped listing. Empty handle means the current workspace.
func (e *Engine) resolveWorkspaceByHandle(handle string) (model.WorkspaceSnapshot, error) {
	if handle == "" {
		return e.topo.WorkspaceCurrent()
	}
	for _, w := range e.topo.WindowList() {
		workspaces, err := e.topo.WorkspaceList(w.Ref)
		if err != nil {
			continue
		}
		for idx, ws := range workspaces {
			if matchesHandle(ws.Ref, ws.ID, handle) || strconv.Itoa(idx) == handle {
				return ws, nil
			}
		}
	}
	return model.WorkspaceSnapshot{}, corerr.New(corerr.NotFound, "workspace %q not found", handle)
}

// resolveWindowByHandle resolves a window handle without mutating focus;
// empty handle means the key window.
func (e *Engine) resolveWindowByHandle(handle string) (model.WindowSnapshot, error) {
	windows := e.topo.WindowList()
	if handle == "" {
		for _, w := range windows {
			if w.Key {
				return w, nil
			}
		}
		return model.WindowSnapshot{}, corerr.New(corerr.NotFound, "no current window")
	}
	for idx, w := range windows {
		if matchesHandle(w.Ref, w.ID, handle) || strconv.Itoa(idx) == handle {
			return w, nil
		}
	}
	return model.WindowSnapshot{}, corerr.New(corerr.NotFound, "window %q not found", handle)
}

// findSurface resolves a surface handle to its owning workspace across
// every window/workspace, for verbs (notify_surface, drag/status by tab)
// that address a surface without an already-known workspace context.
func (e *Engine) findSurface(handle string) (model.WorkspaceSnapshot, model.SurfaceSnapshot, error) {
	for _, w := range e.topo.WindowList() {
		workspaces, err := e.topo.WorkspaceList(w.Ref)
		if err != nil {
			continue
		}
		for _, ws := range workspaces {
			surfaces, err := e.topo.SurfaceList(ws.Ref)
			if err != nil {
				continue
			}
			for _, sfc := range surfaces {
				if matchesHandle(sfc.Ref, sfc.ID, handle) {
					return ws, sfc, nil
				}
			}
		}
	}
	return model.WorkspaceSnapshot{}, model.SurfaceSnapshot{}, corerr.New(corerr.NotFound, "surface %q not found", handle)
}

// resolvePane resolves a pane handle within workspaceRef's pane listing by
// ref, id or decimal index, mirroring C1's listing-scoped index resolution
// without reaching into topology internals.
func (e *Engine) resolvePane(workspaceRef, handle string) (model.PaneSnapshot, error) {
	panes, err := e.topo.PaneList(workspaceRef)
	if err != nil {
		return model.PaneSnapshot{}, err
	}
	if handle == "" {
		ws, err := e.resolveWorkspaceByHandle(workspaceRef)
		if err != nil {
			return model.PaneSnapshot{}, err
		}
		for _, p := range panes {
			if p.ID == ws.FocusedPaneID {
				return p, nil
			}
		}
		if len(panes) > 0 {
			return panes[0], nil
		}
		return model.PaneSnapshot{}, corerr.New(corerr.NotFound, "workspace has no panes")
	}
	for idx, p := range panes {
		if matchesHandle(p.Ref, p.ID, handle) || strconv.Itoa(idx) == handle {
			return p, nil
		}
	}
	return model.PaneSnapshot{}, corerr.New(corerr.NotFound, "pane %q not found", handle)
}

func surfaceRows(surfaces []model.SurfaceSnapshot) []listRow {
	rows := make([]listRow, len(surfaces))
	for i, s := range surfaces {
		title := s.Title
		if title == "" {
			title = string(s.Kind)
		}
		rows[i] = listRow{ref: s.Ref, title: title}
	}
	return rows
}

func focusedSurfaceIndex(surfaces []model.SurfaceSnapshot, selected uuid.UUID) int {
	for i, s := range surfaces {
		if s.ID == selected {
			return i
		}
	}
	return -1
}
