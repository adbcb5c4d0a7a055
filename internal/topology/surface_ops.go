package topology

import (
	"github.com/google/uuid"

	"cmuxterm/internal/corerr"
	"cmuxterm/internal/model"
	"cmuxterm/internal/splittree"
)

// SurfaceList returns workspaceHandle's surfaces (or the current
// workspace's), pane by pane in split-tree order (spec §4.2
// surface.list(workspace?)).
func (s *Store) SurfaceList(workspaceHandle string) ([]model.SurfaceSnapshot, error) {
	var out []model.SurfaceSnapshot
	var err error
	s.submit(func() {
		wsID, rerr := s.resolveWorkspace(workspaceHandle, uuid.Nil, true)
		if rerr != nil {
			err = rerr
			return
		}
		out = []model.SurfaceSnapshot{}
		for _, paneID := range s.panesOf(wsID) {
			for _, sfcID := range s.panes[paneID].Surfaces {
				out = append(out, s.surfaceSnapshot(s.surfaces[sfcID]))
			}
		}
	})
	return out, err
}

// SurfaceNew creates a surface of kind in paneHandle (or the current
// workspace's focused pane), owning a fresh Panel (spec §4.2
// surface.new(kind, pane?, url?)).
func (s *Store) SurfaceNew(kind model.Kind, paneHandle string, url string) (model.SurfaceSnapshot, error) {
	var out model.SurfaceSnapshot
	var err error
	s.submit(func() {
		wsID, rerr := s.resolveWorkspace("", uuid.Nil, true)
		if rerr != nil {
			err = rerr
			return
		}
		paneID, rerr := s.resolvePaneOrDerive(paneHandle, wsID)
		if rerr != nil {
			err = rerr
			return
		}
		sfc := s.createSurfaceLocked(paneID, kind, url, -1)
		out = s.surfaceSnapshot(sfc)
	})
	return out, err
}

// createSurfaceLocked creates a surface+panel and appends it to pane's
// surface list at position (or the end when position < 0). Must run on the
// scheduler goroutine.
func (s *Store) createSurfaceLocked(paneID uuid.UUID, kind model.Kind, url string, position int) *model.Surface {
	panel := &model.Panel{ID: uuid.New(), Kind: kind, Host: url}
	sfc := &model.Surface{ID: uuid.New(), PaneID: paneID, PanelID: panel.ID, Kind: kind}
	sfc.Ref = s.assignRef(model.KindSurface, sfc.ID)
	panel.SurfaceID = sfc.ID
	s.panels[panel.ID] = panel
	s.surfaces[sfc.ID] = sfc

	p := s.panes[paneID]
	if position < 0 {
		position = len(p.Surfaces)
	}
	p.Surfaces = insertID(p.Surfaces, sfc.ID, position)
	s.reindexPaneSurfaces(p)
	if p.SelectedSurfaceID == uuid.Nil {
		p.SelectedSurfaceID = sfc.ID
	}
	return sfc
}

// SurfaceClose closes the resolved surface, collapsing its pane if the pane
// becomes empty and is non-root (spec §4.2 surface.close).
func (s *Store) SurfaceClose(handle string) error {
	var err error
	s.submit(func() {
		id, rerr := s.resolveCurrentSurface(handle)
		if rerr != nil {
			err = rerr
			return
		}
		s.removeSurfaceLocked(id)
	})
	return err
}

// removeSurfaceLocked detaches surfaceID from its pane, reassigns pane
// focus if needed, destroys it and collapses the pane if it is now empty.
// Must run on the scheduler goroutine.
func (s *Store) removeSurfaceLocked(surfaceID uuid.UUID) {
	sfc := s.surfaces[surfaceID]
	if sfc == nil {
		return
	}
	p := s.panes[sfc.PaneID]
	remaining, removedIdx := removeID(p.Surfaces, surfaceID)
	p.Surfaces = remaining
	s.reindexPaneSurfaces(p)
	if p.SelectedSurfaceID == surfaceID {
		p.SelectedSurfaceID = siblingAfterRemoval(p.Surfaces, removedIdx)
	}
	s.destroySurfaceLocked(surfaceID)
	s.collapseIfEmptyLocked(p.WorkspaceID, p.ID)
}

// resolveCurrentSurface resolves handle against the focused surface when
// handle is empty, else against the current workspace's surfaces.
func (s *Store) resolveCurrentSurface(handle string) (uuid.UUID, error) {
	_, _, _, surfaceID := s.focusedTuple()
	wsID, err := s.resolveWorkspace("", uuid.Nil, true)
	if err != nil {
		return uuid.Nil, err
	}
	var listing []uuid.UUID
	for _, paneID := range s.panesOf(wsID) {
		listing = append(listing, s.panes[paneID].Surfaces...)
	}
	return s.resolve(model.KindSurface, handle, listing, true, surfaceID)
}

// SurfaceFocus focuses the resolved surface, making its pane/workspace/
// window the globally focused tuple.
func (s *Store) SurfaceFocus(handle string) (model.SurfaceSnapshot, error) {
	var out model.SurfaceSnapshot
	var err error
	s.submit(func() {
		id, rerr := s.resolveCurrentSurface(handle)
		if rerr != nil {
			err = rerr
			return
		}
		sfc := s.surfaces[id]
		p := s.panes[sfc.PaneID]
		ws := s.workspaces[p.WorkspaceID]
		w := s.windows[ws.WindowID]
		s.setKeyWindow(w.ID)
		w.SelectedWorkspaceID = ws.ID
		ws.FocusedPaneID = p.ID
		p.SelectedSurfaceID = sfc.ID
		out = s.surfaceSnapshot(sfc)
	})
	return out, err
}

// SurfaceReorder repositions the resolved surface within its pane (spec
// §4.2 surface.reorder; round-trip law surface.move(s,{pane,index});
// surface.list(pane)[index] == s applies equally to reorder).
func (s *Store) SurfaceReorder(handle string, pos Position) error {
	var err error
	s.submit(func() {
		id, rerr := s.resolveCurrentSurface(handle)
		if rerr != nil {
			err = rerr
			return
		}
		if pos.IsZero() {
			err = corerr.New(corerr.MissingPosition, "surface.reorder requires before, after or index")
			return
		}
		sfc := s.surfaces[id]
		p := s.panes[sfc.PaneID]
		remaining, _ := removeID(p.Surfaces, id)
		target := resolvePositionIndex(remaining, pos)
		p.Surfaces = insertID(remaining, id, target)
		s.reindexPaneSurfaces(p)
	})
	return err
}

// SurfaceMove implements the surface.move operation (spec §4.2 steps 1-5).
func (s *Store) SurfaceMove(handle string, opts MoveOptions) (MoveResult, error) {
	var out MoveResult
	var err error
	s.submit(func() {
		sfcID, rerr := s.resolveCurrentSurface(handle)
		if rerr != nil {
			err = rerr
			return
		}
		sfc := s.surfaces[sfcID]
		srcPane := s.panes[sfc.PaneID]
		srcWorkspace := s.workspaces[srcPane.WorkspaceID]
		wasFocused := srcPane.SelectedSurfaceID == sfcID

		targetWindowID := srcWorkspace.WindowID
		if opts.Window != "" {
			id, rerr := s.resolveWindow(opts.Window, false)
			if rerr != nil {
				err = rerr
				return
			}
			targetWindowID = id
		}

		targetWorkspaceID := srcPane.WorkspaceID
		if opts.Workspace != "" {
			id, rerr := s.resolveWorkspace(opts.Workspace, targetWindowID, false)
			if rerr != nil {
				err = rerr
				return
			}
			targetWorkspaceID = id
		} else if opts.Window != "" {
			tw := s.windows[targetWindowID]
			if tw.SelectedWorkspaceID == uuid.Nil {
				err = corerr.New(corerr.ConstraintViolation, "target window has no workspace")
				return
			}
			targetWorkspaceID = tw.SelectedWorkspaceID
		}

		if s.workspaces[targetWorkspaceID].WindowID != targetWindowID && opts.Window == "" {
			err = corerr.New(corerr.ConstraintViolation, "moving surface into a different window requires an explicit window handle")
			return
		}

		var targetPaneID uuid.UUID
		if opts.Pane != "" {
			id, rerr := s.resolvePane(opts.Pane, targetWorkspaceID, false)
			if rerr != nil {
				err = rerr
				return
			}
			targetPaneID = id
		} else {
			tws := s.workspaces[targetWorkspaceID]
			targetPaneID = tws.FocusedPaneID
		}

		// Step 2: remove from source pane, collapsing it if now empty.
		remaining, removedIdx := removeID(srcPane.Surfaces, sfcID)
		srcPane.Surfaces = remaining
		if srcPane.SelectedSurfaceID == sfcID {
			srcPane.SelectedSurfaceID = siblingAfterRemoval(srcPane.Surfaces, removedIdx)
		}
		s.reindexPaneSurfaces(srcPane)

		// Step 3: insert into target pane at position.
		targetPane := s.panes[targetPaneID]
		targetIdx := resolvePositionIndex(targetPane.Surfaces, opts.Position)
		sfc.PaneID = targetPaneID
		targetPane.Surfaces = insertID(targetPane.Surfaces, sfcID, targetIdx)
		s.reindexPaneSurfaces(targetPane)

		s.collapseIfEmptyLocked(srcWorkspace.ID, srcPane.ID)

		// Step 4: refocus if requested or the surface was already focused.
		shouldFocus := wasFocused
		if opts.Focus != nil {
			shouldFocus = *opts.Focus
		}
		if shouldFocus {
			targetPane.SelectedSurfaceID = sfcID
			tws := s.workspaces[targetWorkspaceID]
			tws.FocusedPaneID = targetPaneID
			tw := s.windows[targetWindowID]
			tw.SelectedWorkspaceID = targetWorkspaceID
			s.setKeyWindow(targetWindowID)
		} else if targetPane.SelectedSurfaceID == uuid.Nil {
			targetPane.SelectedSurfaceID = sfcID
		}

		out = MoveResult{
			SurfaceID:   sfcID,
			PaneID:      targetPaneID,
			WorkspaceID: targetWorkspaceID,
			WindowID:    targetWindowID,
			Index:       indexOf(targetPane.Surfaces, sfcID),
		}
	})
	return out, err
}

// SurfaceTriggerFlash emits a host-visible attention signal for the
// resolved surface (spec §4.2 surface.trigger_flash). Flash delivery
// itself is a host concern (§6); the store only validates the handle.
func (s *Store) SurfaceTriggerFlash(workspaceHandle, surfaceHandle string) (uuid.UUID, error) {
	var out uuid.UUID
	var err error
	s.submit(func() {
		wsID, rerr := s.resolveWorkspace(workspaceHandle, uuid.Nil, true)
		if rerr != nil {
			err = rerr
			return
		}
		id, rerr := s.resolveSurfaceInWorkspace(surfaceHandle, wsID)
		if rerr != nil {
			err = rerr
			return
		}
		out = id
	})
	return out, err
}

func (s *Store) resolveSurfaceInWorkspace(handle string, workspaceID uuid.UUID) (uuid.UUID, error) {
	var listing []uuid.UUID
	for _, paneID := range s.panesOf(workspaceID) {
		listing = append(listing, s.panes[paneID].Surfaces...)
	}
	ws := s.workspaces[workspaceID]
	current := uuid.Nil
	if p := s.panes[ws.FocusedPaneID]; p != nil {
		current = p.SelectedSurfaceID
	}
	return s.resolve(model.KindSurface, handle, listing, true, current)
}

// DragToSplit implements drag_to_split (spec §4.4): creates a new pane at
// the outer edge of the workspace in the given direction and moves the
// surface there. Per the resolved open question (DESIGN.md), an
// already-root-edge direction always creates a new outer split rather than
// no-op.
func (s *Store) DragToSplit(surfaceHandle string, orientation splittree.Orientation, insertFirst bool) (MoveResult, error) {
	var out MoveResult
	var err error
	s.submit(func() {
		wsID, rerr := s.resolveWorkspace("", uuid.Nil, true)
		if rerr != nil {
			err = rerr
			return
		}
		sfcID, rerr := s.resolveSurfaceInWorkspace(surfaceHandle, wsID)
		if rerr != nil {
			err = rerr
			return
		}
		sfc := s.surfaces[sfcID]
		srcPane := s.panes[sfc.PaneID]

		newPane := &model.Pane{ID: uuid.New(), WorkspaceID: wsID}
		newPane.Ref = s.assignRef(model.KindPane, newPane.ID)
		s.panes[newPane.ID] = newPane

		root := s.trees[wsID]
		wrapped := &splittree.Node{
			Type:        splittree.Split,
			Orientation: orientation,
			Ratio:       0.5,
		}
		newLeaf := splittree.NewLeaf(newPane.ID)
		if insertFirst {
			wrapped.First, wrapped.Second = newLeaf, root
		} else {
			wrapped.First, wrapped.Second = root, newLeaf
		}
		s.trees[wsID] = wrapped

		ws := s.workspaces[wsID]
		ws.RootPaneID = firstRoot(wrapped)

		remaining, removedIdx := removeID(srcPane.Surfaces, sfcID)
		srcPane.Surfaces = remaining
		if srcPane.SelectedSurfaceID == sfcID {
			srcPane.SelectedSurfaceID = siblingAfterRemoval(srcPane.Surfaces, removedIdx)
		}
		s.reindexPaneSurfaces(srcPane)

		sfc.PaneID = newPane.ID
		newPane.Surfaces = []uuid.UUID{sfcID}
		newPane.SelectedSurfaceID = sfcID
		s.reindexPaneSurfaces(newPane)

		s.collapseIfEmptyLocked(wsID, srcPane.ID)

		ws.FocusedPaneID = newPane.ID
		w := s.windows[ws.WindowID]
		s.setKeyWindow(w.ID)
		w.SelectedWorkspaceID = ws.ID

		out = MoveResult{SurfaceID: sfcID, PaneID: newPane.ID, WorkspaceID: wsID, WindowID: w.ID, Index: 0}
	})
	return out, err
}
