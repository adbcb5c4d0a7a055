package topology

import (
	"github.com/google/uuid"

	"cmuxterm/internal/corerr"
	"cmuxterm/internal/model"
	"cmuxterm/internal/splittree"
)

// newWorkspaceLocked creates a workspace with one empty root pane inside w
// and appends it to w.Workspaces. Must run on the scheduler goroutine.
func (s *Store) newWorkspaceLocked(w *model.Window) *model.Workspace {
	ws := &model.Workspace{ID: uuid.New(), WindowID: w.ID, OrderIndex: len(w.Workspaces)}
	ws.Ref = s.assignRef(model.KindWorkspace, ws.ID)
	s.workspaces[ws.ID] = ws
	w.Workspaces = append(w.Workspaces, ws.ID)

	pane := &model.Pane{ID: uuid.New(), WorkspaceID: ws.ID}
	pane.Ref = s.assignRef(model.KindPane, pane.ID)
	s.panes[pane.ID] = pane
	s.trees[ws.ID] = splittree.NewLeaf(pane.ID)
	ws.RootPaneID = pane.ID
	ws.FocusedPaneID = pane.ID

	return ws
}

// closeWorkspaceLocked tears down a workspace and every pane/surface inside
// it. Must run on the scheduler goroutine.
func (s *Store) closeWorkspaceLocked(workspaceID uuid.UUID) {
	ws := s.workspaces[workspaceID]
	if ws == nil {
		return
	}
	for _, paneID := range s.panesOf(workspaceID) {
		p := s.panes[paneID]
		for _, sfcID := range append([]uuid.UUID(nil), p.Surfaces...) {
			s.destroySurfaceLocked(sfcID)
		}
		s.forgetRef(p.Ref, p.ID)
		delete(s.panes, p.ID)
	}
	delete(s.trees, workspaceID)

	w := s.windows[ws.WindowID]
	if w != nil {
		remaining, removedIdx := removeID(w.Workspaces, workspaceID)
		w.Workspaces = remaining
		s.reindexWorkspaces(w)
		if w.SelectedWorkspaceID == workspaceID {
			w.SelectedWorkspaceID = siblingAfterRemoval(w.Workspaces, removedIdx)
		}
	}
	s.forgetRef(ws.Ref, ws.ID)
	delete(s.workspaces, workspaceID)
	delete(s.statuses, workspaceID)
}

// destroySurfaceLocked removes a surface and its panel without touching its
// pane's ordered list (callers that need list bookkeeping do that
// themselves; this is the shared teardown step).
func (s *Store) destroySurfaceLocked(surfaceID uuid.UUID) {
	sfc := s.surfaces[surfaceID]
	if sfc == nil {
		return
	}
	delete(s.panels, sfc.PanelID)
	s.forgetRef(sfc.Ref, sfc.ID)
	delete(s.surfaces, surfaceID)
}

// WorkspaceList returns windowHandle's workspaces in order, or the key
// window's when windowHandle is empty (spec §4.2 workspace.list(window?)).
func (s *Store) WorkspaceList(windowHandle string) ([]model.WorkspaceSnapshot, error) {
	var out []model.WorkspaceSnapshot
	var err error
	s.submit(func() {
		var w *model.Window
		if windowHandle != "" {
			id, rerr := s.resolveWindow(windowHandle, true)
			if rerr != nil {
				err = rerr
				return
			}
			w = s.windows[id]
		} else {
			w = s.keyWindow()
		}
		if w == nil {
			err = corerr.New(corerr.NotFound, "no current window")
			return
		}
		out = make([]model.WorkspaceSnapshot, len(w.Workspaces))
		for i, id := range w.Workspaces {
			out[i] = s.workspaceSnapshot(s.workspaces[id])
		}
	})
	return out, err
}

// WorkspaceCurrent returns the key window's selected workspace.
func (s *Store) WorkspaceCurrent() (model.WorkspaceSnapshot, error) {
	var out model.WorkspaceSnapshot
	var err error
	s.submit(func() {
		w := s.keyWindow()
		if w == nil || w.SelectedWorkspaceID == uuid.Nil {
			err = corerr.New(corerr.NotFound, "no current workspace")
			return
		}
		out = s.workspaceSnapshot(s.workspaces[w.SelectedWorkspaceID])
	})
	return out, err
}

// WorkspaceNew creates a workspace in windowHandle (or the key window) and
// selects it (spec §4.2 workspace.new(window?)).
func (s *Store) WorkspaceNew(windowHandle string) (model.WorkspaceSnapshot, error) {
	var out model.WorkspaceSnapshot
	var err error
	s.submit(func() {
		var w *model.Window
		if windowHandle != "" {
			id, rerr := s.resolveWindow(windowHandle, true)
			if rerr != nil {
				err = rerr
				return
			}
			w = s.windows[id]
		} else {
			w = s.keyWindow()
		}
		if w == nil {
			err = corerr.New(corerr.NotFound, "no current window")
			return
		}
		ws := s.newWorkspaceLocked(w)
		w.SelectedWorkspaceID = ws.ID
		out = s.workspaceSnapshot(ws)
	})
	return out, err
}

// WorkspaceClose closes the resolved workspace (spec §4.2 workspace.close,
// §3 invariant 5: leaves the window empty rather than destroying it).
func (s *Store) WorkspaceClose(handle string) error {
	var err error
	s.submit(func() {
		id, rerr := s.resolveWorkspace(handle, uuid.Nil, true)
		if rerr != nil {
			err = rerr
			return
		}
		s.closeWorkspaceLocked(id)
	})
	return err
}

// WorkspaceSelect makes the resolved workspace the selected workspace of
// its window (spec §4.2 workspace.select).
func (s *Store) WorkspaceSelect(handle string) (model.WorkspaceSnapshot, error) {
	var out model.WorkspaceSnapshot
	var err error
	s.submit(func() {
		id, rerr := s.resolveWorkspace(handle, uuid.Nil, false)
		if rerr != nil {
			err = rerr
			return
		}
		ws := s.workspaces[id]
		w := s.windows[ws.WindowID]
		w.SelectedWorkspaceID = ws.ID
		out = s.workspaceSnapshot(ws)
	})
	return out, err
}

// WorkspaceReorder repositions the resolved workspace within its window
// (spec §4.2 workspace.reorder; fails missing_position when pos is unset).
func (s *Store) WorkspaceReorder(handle string, pos Position) error {
	var err error
	s.submit(func() {
		id, rerr := s.resolveWorkspace(handle, uuid.Nil, false)
		if rerr != nil {
			err = rerr
			return
		}
		if pos.IsZero() {
			err = corerr.New(corerr.MissingPosition, "workspace.reorder requires before, after or index")
			return
		}
		ws := s.workspaces[id]
		w := s.windows[ws.WindowID]
		remaining, _ := removeID(w.Workspaces, id)
		target := resolvePositionIndex(remaining, pos)
		w.Workspaces = insertID(remaining, id, target)
		s.reindexWorkspaces(w)
	})
	return err
}

// WorkspaceMoveToWindow moves the resolved workspace into a different
// window, preserving its panes and surfaces (spec §6
// `move_workspace_to_window`). Moving a workspace into its own window is a
// no-op.
func (s *Store) WorkspaceMoveToWindow(workspaceHandle, windowHandle string) (model.WorkspaceSnapshot, error) {
	var out model.WorkspaceSnapshot
	var err error
	s.submit(func() {
		wsID, rerr := s.resolveWorkspace(workspaceHandle, uuid.Nil, false)
		if rerr != nil {
			err = rerr
			return
		}
		targetWindowID, rerr := s.resolveWindow(windowHandle, false)
		if rerr != nil {
			err = rerr
			return
		}
		ws := s.workspaces[wsID]
		if ws.WindowID == targetWindowID {
			out = s.workspaceSnapshot(ws)
			return
		}

		oldWindow := s.windows[ws.WindowID]
		remaining, removedIdx := removeID(oldWindow.Workspaces, wsID)
		oldWindow.Workspaces = remaining
		s.reindexWorkspaces(oldWindow)
		if oldWindow.SelectedWorkspaceID == wsID {
			oldWindow.SelectedWorkspaceID = siblingAfterRemoval(oldWindow.Workspaces, removedIdx)
		}

		targetWindow := s.windows[targetWindowID]
		ws.WindowID = targetWindowID
		targetWindow.Workspaces = append(targetWindow.Workspaces, wsID)
		s.reindexWorkspaces(targetWindow)
		targetWindow.SelectedWorkspaceID = wsID
		s.setKeyWindow(targetWindowID)

		out = s.workspaceSnapshot(ws)
	})
	return out, err
}

// SetStatus records or replaces an agent-integration status indicator keyed
// by key on the resolved workspace (spec §6 `set_status`).
func (s *Store) SetStatus(workspaceHandle, key, value, icon, color string) error {
	var err error
	s.submit(func() {
		id, rerr := s.resolveWorkspace(workspaceHandle, uuid.Nil, true)
		if rerr != nil {
			err = rerr
			return
		}
		byKey := s.statuses[id]
		if byKey == nil {
			byKey = map[string]model.Status{}
			s.statuses[id] = byKey
		}
		byKey[key] = model.Status{Key: key, Value: value, Icon: icon, Color: color}
	})
	return err
}

// ClearStatus removes key's status indicator from the resolved workspace
// (spec §6 `clear_status`). Clearing an absent key is not an error.
func (s *Store) ClearStatus(workspaceHandle, key string) error {
	var err error
	s.submit(func() {
		id, rerr := s.resolveWorkspace(workspaceHandle, uuid.Nil, true)
		if rerr != nil {
			err = rerr
			return
		}
		delete(s.statuses[id], key)
	})
	return err
}
