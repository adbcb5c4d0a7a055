package topology

import (
	"github.com/google/uuid"

	"cmuxterm/internal/corerr"
	"cmuxterm/internal/model"
)

// WindowList returns every window in creation order (spec §4.2 window.list).
func (s *Store) WindowList() []model.WindowSnapshot {
	var out []model.WindowSnapshot
	s.submit(func() {
		out = make([]model.WindowSnapshot, len(s.windowOrder))
		for i, id := range s.windowOrder {
			out[i] = s.windowSnapshot(s.windows[id])
		}
	})
	return out
}

// WindowCurrent returns the key window.
func (s *Store) WindowCurrent() (model.WindowSnapshot, error) {
	var out model.WindowSnapshot
	var err error
	s.submit(func() {
		w := s.keyWindow()
		if w == nil {
			err = corerr.New(corerr.NotFound, "no current window")
			return
		}
		out = s.windowSnapshot(w)
	})
	return out, err
}

// WindowNew creates a window with one workspace and one empty root pane,
// and makes it the key window (spec §3 lifecycle).
func (s *Store) WindowNew() model.WindowSnapshot {
	var out model.WindowSnapshot
	s.submit(func() {
		w := &model.Window{ID: uuid.New()}
		w.Ref = s.assignRef(model.KindWindow, w.ID)
		s.windows[w.ID] = w
		s.windowOrder = append(s.windowOrder, w.ID)
		s.setKeyWindow(w.ID)

		ws := s.newWorkspaceLocked(w)
		w.SelectedWorkspaceID = ws.ID

		out = s.windowSnapshot(w)
	})
	return out
}

// WindowFocus makes the resolved window the key window (spec §4.2
// window.focus / round-trip law window.focus(w); window.current() == w).
func (s *Store) WindowFocus(handle string) (model.WindowSnapshot, error) {
	var out model.WindowSnapshot
	var err error
	s.submit(func() {
		id, rerr := s.resolveWindow(handle, true)
		if rerr != nil {
			err = rerr
			return
		}
		s.setKeyWindow(id)
		out = s.windowSnapshot(s.windows[id])
	})
	return out, err
}

// WindowClose closes the resolved window; fails constraint_violation when
// the window holds more than one workspace and force is not set (spec §4.2
// window.close).
func (s *Store) WindowClose(handle string, force bool) error {
	var err error
	s.submit(func() {
		id, rerr := s.resolveWindow(handle, true)
		if rerr != nil {
			err = rerr
			return
		}
		w := s.windows[id]
		if len(w.Workspaces) > 1 && !force {
			err = corerr.New(corerr.ConstraintViolation, "window %s has workspaces", w.Ref)
			return
		}
		for _, wsID := range append([]uuid.UUID(nil), w.Workspaces...) {
			s.closeWorkspaceLocked(wsID)
		}
		remaining, removedIdx := removeID(s.windowOrder, id)
		s.windowOrder = remaining
		s.forgetRef(w.Ref, w.ID)
		delete(s.windows, id)

		if s.keyWindowID == id {
			s.keyWindowID = uuid.Nil
			if next := siblingAfterRemoval(s.windowOrder, removedIdx); next != uuid.Nil {
				s.setKeyWindow(next)
			}
		}
	})
	return err
}
