package dispatch

// v2Table builds the method → handler map for the dotted v2 namespace
// (spec §4.2, §4.5, §4.7).
func v2Table() map[string]v2Handler {
	return map[string]v2Handler{
		"system.capabilities": v2SystemCapabilities,
		"system.identify":     v2SystemIdentify,

		"window.list":    v2WindowList,
		"window.current": v2WindowCurrent,
		"window.new":     v2WindowNew,
		"window.focus":   v2WindowFocus,
		"window.close":   v2WindowClose,

		"workspace.list":    v2WorkspaceList,
		"workspace.current": v2WorkspaceCurrent,
		"workspace.new":     v2WorkspaceNew,
		"workspace.close":   v2WorkspaceClose,
		"workspace.select":  v2WorkspaceSelect,
		"workspace.reorder": v2WorkspaceReorder,

		"pane.list":  v2PaneList,
		"pane.focus": v2PaneFocus,
		"pane.split": v2PaneSplit,

		"surface.list":          v2SurfaceList,
		"surface.new":           v2SurfaceNew,
		"surface.close":         v2SurfaceClose,
		"surface.focus":         v2SurfaceFocus,
		"surface.reorder":       v2SurfaceReorder,
		"surface.move":          v2SurfaceMove,
		"surface.trigger_flash": v2SurfaceTriggerFlash,
	}
}
