package topology

import (
	"github.com/google/uuid"

	"cmuxterm/internal/model"
	"cmuxterm/internal/splittree"
)

// panesOf returns workspaceID's panes in canonical split-tree order.
func (s *Store) panesOf(workspaceID uuid.UUID) []uuid.UUID {
	return splittree.AllPanes(s.trees[workspaceID])
}

func (s *Store) windowSnapshot(w *model.Window) model.WindowSnapshot {
	refs := make([]string, len(w.Workspaces))
	for i, id := range w.Workspaces {
		refs[i] = s.workspaces[id].Ref
	}
	return model.WindowSnapshot{
		ID:                  w.ID,
		Ref:                 w.Ref,
		Workspaces:          refs,
		SelectedWorkspaceID: w.SelectedWorkspaceID,
		Key:                 w.Key,
	}
}

func (s *Store) workspaceSnapshot(ws *model.Workspace) model.WorkspaceSnapshot {
	win := s.windows[ws.WindowID]
	winRef := ""
	if win != nil {
		winRef = win.Ref
	}
	var statuses []model.Status
	for _, st := range s.statuses[ws.ID] {
		statuses = append(statuses, st)
	}
	return model.WorkspaceSnapshot{
		ID:            ws.ID,
		Ref:           ws.Ref,
		WindowID:      ws.WindowID,
		WindowRef:     winRef,
		Title:         ws.Title,
		FocusedPaneID: ws.FocusedPaneID,
		OrderIndex:    ws.OrderIndex,
		Statuses:      statuses,
	}
}

func (s *Store) paneSnapshot(p *model.Pane) model.PaneSnapshot {
	refs := make([]string, len(p.Surfaces))
	for i, id := range p.Surfaces {
		refs[i] = s.surfaces[id].Ref
	}
	return model.PaneSnapshot{
		ID:                p.ID,
		Ref:               p.Ref,
		WorkspaceID:       p.WorkspaceID,
		Surfaces:          refs,
		SelectedSurfaceID: p.SelectedSurfaceID,
	}
}

func (s *Store) surfaceSnapshot(sfc *model.Surface) model.SurfaceSnapshot {
	p := s.panes[sfc.PaneID]
	paneRef := ""
	if p != nil {
		paneRef = p.Ref
	}
	return model.SurfaceSnapshot{
		ID:               sfc.ID,
		Ref:              sfc.Ref,
		PaneID:           sfc.PaneID,
		PaneRef:          paneRef,
		Title:            sfc.Title,
		Kind:             sfc.Kind,
		OrderIndexInPane: sfc.OrderIndexInPane,
	}
}

// reindexPaneSurfaces renumbers OrderIndexInPane to match the current slice
// order, matching the teacher's format.go habit of deriving display index
// from slice position rather than storing it independently.
func (s *Store) reindexPaneSurfaces(p *model.Pane) {
	for i, id := range p.Surfaces {
		s.surfaces[id].OrderIndexInPane = i
	}
}

func (s *Store) reindexWorkspaces(w *model.Window) {
	for i, id := range w.Workspaces {
		s.workspaces[id].OrderIndex = i
	}
}
