package dispatch

// v1Table builds the verb → handler map once per Engine, mirroring the
// teacher's CommandRouter.handlers table (internal/tmux/command_router.go).
func v1Table() map[string]v1Handler {
	return map[string]v1Handler{
		"ping":                     v1Ping,
		"help":                     v1Help,
		"list_windows":             v1ListWindows,
		"current_window":           v1CurrentWindow,
		"new_window":               v1NewWindow,
		"focus_window":             v1FocusWindow,
		"close_window":             v1CloseWindow,
		"move_workspace_to_window": v1MoveWorkspaceToWindow,
		"list_workspaces":          v1ListWorkspaces,
		"new_workspace":            v1NewWorkspace,
		"select_workspace":         v1SelectWorkspace,
		"current_workspace":        v1CurrentWorkspace,
		"close_workspace":          v1CloseWorkspace,
		"list_surfaces":            v1ListSurfaces,
		"focus_surface":            v1FocusSurface,
		"new_split":                v1NewSplit,
		"list_panes":               v1ListPanes,
		"list_pane_surfaces":       v1ListPaneSurfaces,
		"focus_pane":               v1FocusPane,
		"new_pane":                 v1NewPane,
		"new_surface":              v1NewSurface,
		"close_surface":            v1CloseSurface,
		"drag_surface_to_split":    v1DragSurfaceToSplit,
		"refresh_surfaces":         v1RefreshSurfaces,
		"surface_health":           v1SurfaceHealth,
		"send":                     v1Send,
		"send_key":                 v1SendKey,
		"send_surface":             v1SendSurface,
		"send_key_surface":         v1SendKeySurface,
		"notify":                   v1Notify,
		"notify_surface":           v1NotifySurface,
		"notify_target":            v1NotifyTarget,
		"list_notifications":       v1ListNotifications,
		"clear_notifications":      v1ClearNotifications,
		"set_app_focus":            v1SetAppFocus,
		"simulate_app_active":      v1SimulateAppActive,
		"set_status":               v1SetStatus,
		"clear_status":             v1ClearStatus,
		"open_browser":             v1OpenBrowser,
		"navigate":                 v1Navigate,
		"browser_back":             v1BrowserBack,
		"browser_forward":          v1BrowserForward,
		"browser_reload":           v1BrowserReload,
		"get_url":                  v1GetURL,
		"claude_hook":              v1ClaudeHook,
	}
}
