package topology

import (
	"github.com/google/uuid"

	"cmuxterm/internal/corerr"
	"cmuxterm/internal/model"
	"cmuxterm/internal/splittree"
)

// PaneList returns workspaceHandle's panes (or the current workspace's) in
// canonical split-tree order (spec §4.2 pane.list(workspace?)).
func (s *Store) PaneList(workspaceHandle string) ([]model.PaneSnapshot, error) {
	var out []model.PaneSnapshot
	var err error
	s.submit(func() {
		wsID, rerr := s.resolveWorkspace(workspaceHandle, uuid.Nil, true)
		if rerr != nil {
			err = rerr
			return
		}
		ids := s.panesOf(wsID)
		out = make([]model.PaneSnapshot, len(ids))
		for i, id := range ids {
			out[i] = s.paneSnapshot(s.panes[id])
		}
	})
	return out, err
}

// PaneFocus focuses the resolved pane, which also selects its current
// surface as the globally focused one (spec §4.2 pane.focus).
func (s *Store) PaneFocus(handle string) (model.PaneSnapshot, error) {
	var out model.PaneSnapshot
	var err error
	s.submit(func() {
		wsID, rerr := s.resolveWorkspace("", uuid.Nil, true)
		if rerr != nil {
			err = rerr
			return
		}
		id, rerr := s.resolvePane(handle, wsID, true)
		if rerr != nil {
			err = rerr
			return
		}
		p := s.panes[id]
		ws := s.workspaces[p.WorkspaceID]
		w := s.windows[ws.WindowID]
		s.setKeyWindow(w.ID)
		w.SelectedWorkspaceID = ws.ID
		ws.FocusedPaneID = p.ID
		out = s.paneSnapshot(p)
	})
	return out, err
}

// PaneSplit implements split_pane (spec §4.4): replaces the resolved pane's
// leaf with an internal split node whose two children are the original
// pane and a fresh empty pane, and returns the fresh pane.
func (s *Store) PaneSplit(paneHandle string, orientation splittree.Orientation, insertFirst bool) (model.PaneSnapshot, error) {
	var out model.PaneSnapshot
	var err error
	s.submit(func() {
		wsID, rerr := s.resolveWorkspace("", uuid.Nil, true)
		if rerr != nil {
			err = rerr
			return
		}
		paneID, rerr := s.resolvePane(paneHandle, wsID, true)
		if rerr != nil {
			err = rerr
			return
		}
		newPane := &model.Pane{ID: uuid.New(), WorkspaceID: wsID}
		newPane.Ref = s.assignRef(model.KindPane, newPane.ID)
		s.panes[newPane.ID] = newPane

		root, ok := splittree.SplitPane(s.trees[wsID], paneID, orientation, newPane.ID, insertFirst)
		if !ok {
			s.forgetRef(newPane.Ref, newPane.ID)
			delete(s.panes, newPane.ID)
			err = notFound(model.KindPane, paneHandle)
			return
		}
		s.trees[wsID] = root
		out = s.paneSnapshot(newPane)
	})
	return out, err
}

// collapseIfEmptyLocked removes paneID from its workspace's split tree if it
// has no surfaces and is not the tree's sole root leaf (spec §4.4
// collapse_if_empty). Must run on the scheduler goroutine.
func (s *Store) collapseIfEmptyLocked(workspaceID, paneID uuid.UUID) {
	p := s.panes[paneID]
	if p == nil || len(p.Surfaces) > 0 {
		return
	}
	root := s.trees[workspaceID]
	if splittree.IsRootLeaf(root, paneID) {
		return
	}
	newRoot, removed := splittree.Collapse(root, paneID)
	if !removed {
		return
	}
	s.trees[workspaceID] = newRoot
	s.forgetRef(p.Ref, p.ID)
	delete(s.panes, paneID)

	ws := s.workspaces[workspaceID]
	if ws.FocusedPaneID == paneID || ws.RootPaneID == paneID {
		panes := s.panesOf(workspaceID)
		if ws.RootPaneID == paneID && len(panes) > 0 {
			ws.RootPaneID = firstRoot(newRoot)
		}
		if ws.FocusedPaneID == paneID && len(panes) > 0 {
			ws.FocusedPaneID = panes[0]
		}
	}
}

func firstRoot(n *splittree.Node) uuid.UUID {
	ids := splittree.AllPanes(n)
	if len(ids) == 0 {
		return uuid.Nil
	}
	return ids[0]
}

// resolvePaneOrDerive resolves paneHandle against workspaceID, or, when
// paneHandle is empty, returns the workspace's focused pane. Every
// workspace always has at least its root pane, so this never needs to
// create one.
func (s *Store) resolvePaneOrDerive(paneHandle string, workspaceID uuid.UUID) (uuid.UUID, error) {
	if paneHandle != "" {
		return s.resolvePane(paneHandle, workspaceID, false)
	}
	ws := s.workspaces[workspaceID]
	if ws == nil || ws.FocusedPaneID == uuid.Nil {
		return uuid.Nil, corerr.New(corerr.NotFound, "workspace has no focused pane")
	}
	return ws.FocusedPaneID, nil
}
