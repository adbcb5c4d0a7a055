package topology

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cmuxterm/internal/model"
	"cmuxterm/internal/splittree"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(nil)
	t.Cleanup(s.Close)
	return s
}

func TestWindowNewAndCurrent(t *testing.T) {
	s := newTestStore(t)
	w := s.WindowNew()
	require.True(t, w.Key)
	require.Len(t, w.Workspaces, 1)

	cur, err := s.WindowCurrent()
	require.NoError(t, err)
	require.Equal(t, w.ID, cur.ID)
}

func TestWindowFocusRoundTrip(t *testing.T) {
	s := newTestStore(t)
	w1 := s.WindowNew()
	w2 := s.WindowNew()

	got, err := s.WindowFocus(w1.Ref)
	require.NoError(t, err)
	require.Equal(t, w1.ID, got.ID)

	cur, err := s.WindowCurrent()
	require.NoError(t, err)
	require.Equal(t, w1.ID, cur.ID)
	require.NotEqual(t, w2.ID, cur.ID)
}

func TestCloseLastWindow(t *testing.T) {
	s := newTestStore(t)
	w := s.WindowNew()

	err := s.WindowClose(w.Ref, false)
	require.NoError(t, err)

	list := s.WindowList()
	require.Empty(t, list)

	_, err = s.WindowCurrent()
	require.Error(t, err)
}

func TestWindowCloseRequiresForceWhenNonEmpty(t *testing.T) {
	s := newTestStore(t)
	w := s.WindowNew()
	_, err := s.WorkspaceNew(w.Ref)
	require.NoError(t, err)

	err = s.WindowClose(w.Ref, false)
	require.Error(t, err)

	err = s.WindowClose(w.Ref, true)
	require.NoError(t, err)
}

func TestSurfaceNewInFocusedWorkspace(t *testing.T) {
	s := newTestStore(t)
	s.WindowNew()

	panes, err := s.PaneList("")
	require.NoError(t, err)
	require.Len(t, panes, 1)
	p1 := panes[0]
	require.Len(t, p1.Surfaces, 0)

	sfc, err := s.SurfaceNew(model.KindTerminal, "", "")
	require.NoError(t, err)
	require.NotEqual(t, sfc.ID, sfc.PaneID)

	surfaces, err := s.SurfaceList("")
	require.NoError(t, err)
	require.Len(t, surfaces, 1)
	require.Equal(t, sfc.ID, surfaces[0].ID)
}

func TestReorderSurfacesByIndex(t *testing.T) {
	s := newTestStore(t)
	s.WindowNew()
	panes, _ := s.PaneList("")
	pane := panes[0]

	s1, err := s.SurfaceNew(model.KindTerminal, pane.Ref, "")
	require.NoError(t, err)
	s2, err := s.SurfaceNew(model.KindTerminal, pane.Ref, "")
	require.NoError(t, err)
	s3, err := s.SurfaceNew(model.KindTerminal, pane.Ref, "")
	require.NoError(t, err)

	_, err = s.SurfaceFocus(s2.Ref)
	require.NoError(t, err)

	zero := 0
	err = s.SurfaceReorder(s2.Ref, Position{Index: &zero})
	require.NoError(t, err)

	list, err := s.SurfaceList("")
	require.NoError(t, err)
	require.Equal(t, []string{s2.Ref, s1.Ref, s3.Ref}, []string{list[0].Ref, list[1].Ref, list[2].Ref})

	id := s.SystemIdentify("")
	require.Equal(t, s2.ID, id.SurfaceID)
}

func TestPaneSplitAndAllPanes(t *testing.T) {
	s := newTestStore(t)
	s.WindowNew()
	panes, _ := s.PaneList("")
	root := panes[0]

	newPane, err := s.PaneSplit(root.Ref, splittree.Vertical, false)
	require.NoError(t, err)
	require.NotEqual(t, root.ID, newPane.ID)

	all, err := s.PaneList("")
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestSurfaceMoveToAnotherPane(t *testing.T) {
	s := newTestStore(t)
	s.WindowNew()
	panes, _ := s.PaneList("")
	p1 := panes[0]
	p2, err := s.PaneSplit(p1.Ref, splittree.Horizontal, false)
	require.NoError(t, err)

	sfc, err := s.SurfaceNew(model.KindTerminal, p1.Ref, "")
	require.NoError(t, err)

	zero := 0
	res, err := s.SurfaceMove(sfc.Ref, MoveOptions{Pane: p2.Ref, Position: Position{Index: &zero}})
	require.NoError(t, err)
	require.Equal(t, p2.ID, res.PaneID)

	list, err := s.SurfaceList("")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, p2.ID, list[0].PaneID)
}

func TestWorkspaceReorderMissingPosition(t *testing.T) {
	s := newTestStore(t)
	w := s.WindowNew()
	_, err := s.WorkspaceNew(w.Ref)
	require.NoError(t, err)

	list, _ := s.WorkspaceList(w.Ref)
	err = s.WorkspaceReorder(list[0].Ref, Position{})
	require.Error(t, err)
}

func TestSetAndClearStatus(t *testing.T) {
	s := newTestStore(t)
	w := s.WindowNew()
	ws, err := s.WorkspaceCurrent()
	require.NoError(t, err)
	_ = w

	require.NoError(t, s.SetStatus(ws.Ref, "claude", "Running", "bolt", "#00ff00"))
	cur, err := s.WorkspaceCurrent()
	require.NoError(t, err)
	require.Len(t, cur.Statuses, 1)
	require.Equal(t, "Running", cur.Statuses[0].Value)

	require.NoError(t, s.SetStatus(ws.Ref, "claude", "Waiting", "bolt", "#ffaa00"))
	cur, _ = s.WorkspaceCurrent()
	require.Len(t, cur.Statuses, 1)
	require.Equal(t, "Waiting", cur.Statuses[0].Value)

	require.NoError(t, s.ClearStatus(ws.Ref, "claude"))
	cur, _ = s.WorkspaceCurrent()
	require.Empty(t, cur.Statuses)
}

func TestClearStatusOnAbsentKeyIsNotError(t *testing.T) {
	s := newTestStore(t)
	s.WindowNew()
	ws, err := s.WorkspaceCurrent()
	require.NoError(t, err)
	require.NoError(t, s.ClearStatus(ws.Ref, "nonexistent"))
}
