package dispatch

import (
	"context"

	"cmuxterm/internal/model"
)

func v1Ping(ctx context.Context, e *Engine, rest string) string {
	return "PONG"
}

func v1Help(ctx context.Context, e *Engine, rest string) string {
	return "verbs: ping help list_windows current_window new_window focus_window close_window " +
		"move_workspace_to_window list_workspaces new_workspace select_workspace current_workspace " +
		"close_workspace list_surfaces focus_surface new_split list_panes list_pane_surfaces " +
		"focus_pane new_pane new_surface close_surface drag_surface_to_split refresh_surfaces " +
		"surface_health send send_key send_surface send_key_surface notify notify_surface " +
		"notify_target list_notifications clear_notifications set_app_focus simulate_app_active " +
		"set_status clear_status open_browser navigate browser_back browser_forward browser_reload get_url " +
		"claude_hook"
}

func v1ListWindows(ctx context.Context, e *Engine, rest string) string {
	windows := e.topo.WindowList()
	rows := make([]listRow, len(windows))
	focused := -1
	for i, w := range windows {
		rows[i] = listRow{ref: w.Ref}
		if w.Key {
			focused = i
		}
	}
	return listLines("windows", focused, rows)
}

func v1CurrentWindow(ctx context.Context, e *Engine, rest string) string {
	w, err := e.topo.WindowCurrent()
	if err != nil {
		return errLine(err)
	}
	return w.Ref
}

func v1NewWindow(ctx context.Context, e *Engine, rest string) string {
	w := e.topo.WindowNew()
	return okLine(w.Ref)
}

func v1FocusWindow(ctx context.Context, e *Engine, rest string) string {
	args, _ := tokenizeArgsFlags(rest)
	if len(args) < 1 {
		return errLine(missingArg("focus_window requires <id>"))
	}
	if _, err := e.topo.WindowFocus(args[0]); err != nil {
		return errLine(err)
	}
	return okLine("")
}

func v1CloseWindow(ctx context.Context, e *Engine, rest string) string {
	args, flags := tokenizeArgsFlags(rest)
	if len(args) < 1 {
		return errLine(missingArg("close_window requires <id>"))
	}
	force := flags["force"] == "true"
	if err := e.topo.WindowClose(args[0], force); err != nil {
		return errLine(err)
	}
	return okLine("")
}

func v1MoveWorkspaceToWindow(ctx context.Context, e *Engine, rest string) string {
	args, _ := tokenizeArgsFlags(rest)
	if len(args) < 2 {
		return errLine(missingArg("move_workspace_to_window requires <ws> <win>"))
	}
	ws, err := e.topo.WorkspaceMoveToWindow(args[0], args[1])
	if err != nil {
		return errLine(err)
	}
	return okLine(ws.Ref)
}

func v1ListWorkspaces(ctx context.Context, e *Engine, rest string) string {
	args, _ := tokenizeArgsFlags(rest)
	windowHandle := ""
	if len(args) > 0 {
		windowHandle = args[0]
	}
	workspaces, err := e.topo.WorkspaceList(windowHandle)
	if err != nil {
		return errLine(err)
	}
	rows := make([]listRow, len(workspaces))
	focused := -1
	w, err := e.resolveWindowByHandle(windowHandle)
	if err != nil {
		return errLine(err)
	}
	for i, ws := range workspaces {
		rows[i] = listRow{ref: ws.Ref, title: ws.Title}
		if ws.ID == w.SelectedWorkspaceID {
			focused = i
		}
	}
	return listLines("workspaces", focused, rows)
}

func v1NewWorkspace(ctx context.Context, e *Engine, rest string) string {
	args, _ := tokenizeArgsFlags(rest)
	windowHandle := ""
	if len(args) > 0 {
		windowHandle = args[0]
	}
	ws, err := e.topo.WorkspaceNew(windowHandle)
	if err != nil {
		return errLine(err)
	}
	return okLine(ws.Ref)
}

func v1SelectWorkspace(ctx context.Context, e *Engine, rest string) string {
	args, _ := tokenizeArgsFlags(rest)
	if len(args) < 1 {
		return errLine(missingArg("select_workspace requires <h>"))
	}
	if _, err := e.topo.WorkspaceSelect(args[0]); err != nil {
		return errLine(err)
	}
	return okLine("")
}

func v1CurrentWorkspace(ctx context.Context, e *Engine, rest string) string {
	ws, err := e.topo.WorkspaceCurrent()
	if err != nil {
		return errLine(err)
	}
	return ws.Ref
}

func v1CloseWorkspace(ctx context.Context, e *Engine, rest string) string {
	args, _ := tokenizeArgsFlags(rest)
	if len(args) < 1 {
		return errLine(missingArg("close_workspace requires <id>"))
	}
	if err := e.topo.WorkspaceClose(args[0]); err != nil {
		return errLine(err)
	}
	return okLine("")
}

func v1ListSurfaces(ctx context.Context, e *Engine, rest string) string {
	args, _ := tokenizeArgsFlags(rest)
	workspaceHandle := ""
	if len(args) > 0 {
		workspaceHandle = args[0]
	}
	surfaces, err := e.topo.SurfaceList(workspaceHandle)
	if err != nil {
		return errLine(err)
	}
	ws, err := e.resolveWorkspaceByHandle(workspaceHandle)
	if err != nil {
		return errLine(err)
	}
	focused := -1
	if p, perr := e.resolvePane(ws.Ref, ""); perr == nil {
		focused = focusedSurfaceIndex(surfaces, p.SelectedSurfaceID)
	}
	return listLines("surfaces", focused, surfaceRows(surfaces))
}

func v1FocusSurface(ctx context.Context, e *Engine, rest string) string {
	args, _ := tokenizeArgsFlags(rest)
	if len(args) < 1 {
		return errLine(missingArg("focus_surface requires <h>"))
	}
	if _, err := e.topo.SurfaceFocus(args[0]); err != nil {
		return errLine(err)
	}
	return okLine("")
}

func v1NewSplit(ctx context.Context, e *Engine, rest string) string {
	args, _ := tokenizeArgsFlags(rest)
	if len(args) < 1 {
		return errLine(missingArg("new_split requires <dir>"))
	}
	orientation, insertFirst, err := parseDirection(args[0])
	if err != nil {
		return errLine(err)
	}
	paneHandle := ""
	if len(args) > 1 {
		paneHandle = args[1]
	}
	pane, err := e.topo.PaneSplit(paneHandle, orientation, insertFirst)
	if err != nil {
		return errLine(err)
	}
	return okLine(pane.Ref)
}

func v1ListPanes(ctx context.Context, e *Engine, rest string) string {
	args, _ := tokenizeArgsFlags(rest)
	workspaceHandle := ""
	if len(args) > 0 {
		workspaceHandle = args[0]
	}
	panes, err := e.topo.PaneList(workspaceHandle)
	if err != nil {
		return errLine(err)
	}
	ws, err := e.resolveWorkspaceByHandle(workspaceHandle)
	if err != nil {
		return errLine(err)
	}
	focused := -1
	rows := make([]listRow, len(panes))
	for i, p := range panes {
		rows[i] = listRow{ref: p.Ref}
		if p.ID == ws.FocusedPaneID {
			focused = i
		}
	}
	return listLines("panes", focused, rows)
}

func v1ListPaneSurfaces(ctx context.Context, e *Engine, rest string) string {
	_, flags := tokenizeArgsFlags(rest)
	ws, err := e.topo.WorkspaceCurrent()
	if err != nil {
		return errLine(err)
	}
	pane, err := e.resolvePane(ws.Ref, flags["pane"])
	if err != nil {
		return errLine(err)
	}
	surfaces, err := e.topo.SurfaceList(ws.Ref)
	if err != nil {
		return errLine(err)
	}
	var filtered []model.SurfaceSnapshot
	for _, s := range surfaces {
		if s.PaneID == pane.ID {
			filtered = append(filtered, s)
		}
	}
	return listLines("surfaces", focusedSurfaceIndex(filtered, pane.SelectedSurfaceID), surfaceRows(filtered))
}

func v1FocusPane(ctx context.Context, e *Engine, rest string) string {
	args, _ := tokenizeArgsFlags(rest)
	if len(args) < 1 {
		return errLine(missingArg("focus_pane requires <h>"))
	}
	if _, err := e.topo.PaneFocus(args[0]); err != nil {
		return errLine(err)
	}
	return okLine("")
}

func v1NewPane(ctx context.Context, e *Engine, rest string) string {
	_, flags := tokenizeArgsFlags(rest)
	dir := flags["direction"]
	if dir == "" {
		dir = "right"
	}
	orientation, insertFirst, err := parseDirection(dir)
	if err != nil {
		return errLine(err)
	}
	pane, err := e.topo.PaneSplit("", orientation, insertFirst)
	if err != nil {
		return errLine(err)
	}
	kind := model.KindTerminal
	if flags["type"] == "b" {
		kind = model.KindBrowser
	}
	sfc, err := e.topo.SurfaceNew(kind, pane.Ref, flags["url"])
	if err != nil {
		return errLine(err)
	}
	if _, err := e.topo.SurfaceFocus(sfc.Ref); err != nil {
		return errLine(err)
	}
	return okLine(sfc.Ref)
}

// v1NewSurface creates a surface and focuses it, so a freshly opened tab is
// the one the caller lands on (spec §8 scenario 1).
func v1NewSurface(ctx context.Context, e *Engine, rest string) string {
	_, flags := tokenizeArgsFlags(rest)
	kind := model.KindTerminal
	if flags["type"] == "browser" {
		kind = model.KindBrowser
	}
	sfc, err := e.topo.SurfaceNew(kind, flags["pane"], flags["url"])
	if err != nil {
		return errLine(err)
	}
	if _, err := e.topo.SurfaceFocus(sfc.Ref); err != nil {
		return errLine(err)
	}
	return okLine(sfc.Ref)
}

func v1CloseSurface(ctx context.Context, e *Engine, rest string) string {
	args, _ := tokenizeArgsFlags(rest)
	handle := ""
	if len(args) > 0 {
		handle = args[0]
	}
	if err := e.topo.SurfaceClose(handle); err != nil {
		return errLine(err)
	}
	return okLine("")
}

func v1DragSurfaceToSplit(ctx context.Context, e *Engine, rest string) string {
	args, _ := tokenizeArgsFlags(rest)
	if len(args) < 2 {
		return errLine(missingArg("drag_surface_to_split requires <h> <dir>"))
	}
	orientation, insertFirst, err := parseDirection(args[1])
	if err != nil {
		return errLine(err)
	}
	res, err := e.topo.DragToSplit(args[0], orientation, insertFirst)
	if err != nil {
		return errLine(err)
	}
	return okLine(res.SurfaceID.String())
}

func v1RefreshSurfaces(ctx context.Context, e *Engine, rest string) string {
	return okLine("")
}

func v1SurfaceHealth(ctx context.Context, e *Engine, rest string) string {
	args, _ := tokenizeArgsFlags(rest)
	workspaceHandle := ""
	if len(args) > 0 {
		workspaceHandle = args[0]
	}
	surfaces, err := e.topo.SurfaceList(workspaceHandle)
	if err != nil {
		return errLine(err)
	}
	if len(surfaces) == 0 {
		return "No surfaces"
	}
	lines := make([]string, len(surfaces))
	for i, s := range surfaces {
		alive := "down"
		if panel, perr := e.topo.PanelFor(s.Ref); perr == nil && panel.Host != "" {
			alive = "up"
		}
		title := s.Title
		if title == "" {
			title = string(s.Kind)
		}
		lines[i] = s.Ref + " " + string(s.Kind) + " " + title + " " + alive
	}
	return joinLines(lines)
}
