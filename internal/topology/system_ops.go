package topology

// SystemCapabilities implements system.capabilities (spec §4.2).
func (s *Store) SystemCapabilities() Capabilities {
	var out Capabilities
	s.submit(func() {
		out = Capabilities{
			Protocols:    []string{"v1", "v2"},
			AccessModes:  []string{"off", "notifications_only", "full"},
			BrowserHost:  true,
			TerminalHost: true,
		}
	})
	return out
}

// SystemIdentify implements system.identify(caller?): the focused
// window/workspace/pane/surface handles plus an optional caller echo.
func (s *Store) SystemIdentify(caller string) Identify {
	var out Identify
	s.submit(func() {
		windowID, workspaceID, paneID, surfaceID := s.focusedTuple()
		out = Identify{
			WindowID:    windowID,
			WorkspaceID: workspaceID,
			PaneID:      paneID,
			SurfaceID:   surfaceID,
			Caller:      caller,
		}
		if w := s.windows[windowID]; w != nil {
			out.WindowRef = w.Ref
		}
	})
	return out
}
