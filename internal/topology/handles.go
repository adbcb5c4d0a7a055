package topology

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"cmuxterm/internal/corerr"
	"cmuxterm/internal/model"
)

// resolve implements the Handle & Reference Resolver (C1): handle is either
// a canonical UUID, a short ref "kind:N", a decimal index into listing, or
// empty (meaning "current/focused" when allowCurrent is set). listing gives
// the ids the index form resolves against, scoped by the caller (e.g. a
// window's workspaces, a pane's surfaces).
func (s *Store) resolve(kind model.EntityKind, handle string, listing []uuid.UUID, allowCurrent bool, current uuid.UUID) (uuid.UUID, error) {
	handle = strings.TrimSpace(handle)

	if handle == "" {
		if allowCurrent && current != uuid.Nil {
			return current, nil
		}
		return uuid.Nil, corerr.New(corerr.MissingPosition, "no handle given and no current %s", kind)
	}

	if id, err := uuid.Parse(handle); err == nil {
		if s.kindByID[id] != kind {
			return uuid.Nil, notFound(kind, handle)
		}
		return id, nil
	}

	if refKind, n, ok := parseRef(handle); ok {
		if refKind != kind {
			return uuid.Nil, corerr.New(corerr.InvalidHandle, "ref %q is not a %s", handle, kind)
		}
		id, found := s.byRef[handle]
		_ = n
		if !found {
			return uuid.Nil, notFound(kind, handle)
		}
		return id, nil
	}

	if idx, err := strconv.Atoi(handle); err == nil {
		if idx < 0 || idx >= len(listing) {
			return uuid.Nil, notFound(kind, handle)
		}
		return listing[idx], nil
	}

	return uuid.Nil, corerr.New(corerr.InvalidHandle, "malformed handle %q", handle)
}

// parseRef splits "kind:N" into its components.
func parseRef(handle string) (model.EntityKind, int, bool) {
	kindStr, numStr, found := strings.Cut(handle, ":")
	if !found {
		return "", 0, false
	}
	n, err := strconv.Atoi(numStr)
	if err != nil || n <= 0 {
		return "", 0, false
	}
	switch model.EntityKind(kindStr) {
	case model.KindWindow, model.KindWorkspace, model.KindPane, model.KindSurface:
		return model.EntityKind(kindStr), n, true
	default:
		return "", 0, false
	}
}

// resolveWindow resolves a window handle against the full window order.
func (s *Store) resolveWindow(handle string, allowCurrent bool) (uuid.UUID, error) {
	return s.resolve(model.KindWindow, handle, s.windowOrder, allowCurrent, s.keyWindowID)
}

// resolveWorkspace resolves a workspace handle, scoped to windowID's
// workspace list when windowID is non-nil, else to the key window's.
func (s *Store) resolveWorkspace(handle string, windowID uuid.UUID, allowCurrent bool) (uuid.UUID, error) {
	var listing []uuid.UUID
	if windowID != uuid.Nil {
		if w := s.windows[windowID]; w != nil {
			listing = w.Workspaces
		}
	} else if w := s.keyWindow(); w != nil {
		listing = w.Workspaces
	}
	current := uuid.Nil
	if w := s.keyWindow(); w != nil {
		current = w.SelectedWorkspaceID
	}
	return s.resolve(model.KindWorkspace, handle, listing, allowCurrent, current)
}

// resolvePane resolves a pane handle scoped to workspaceID's pane listing
// (the split tree's in-order traversal).
func (s *Store) resolvePane(handle string, workspaceID uuid.UUID, allowCurrent bool) (uuid.UUID, error) {
	listing := s.panesOf(workspaceID)
	current := uuid.Nil
	if ws := s.workspaces[workspaceID]; ws != nil {
		current = ws.FocusedPaneID
	}
	return s.resolve(model.KindPane, handle, listing, allowCurrent, current)
}

// resolveSurface resolves a surface handle scoped to paneID's surface list.
func (s *Store) resolveSurface(handle string, paneID uuid.UUID, allowCurrent bool) (uuid.UUID, error) {
	var listing []uuid.UUID
	current := uuid.Nil
	if p := s.panes[paneID]; p != nil {
		listing = p.Surfaces
		current = p.SelectedSurfaceID
	}
	return s.resolve(model.KindSurface, handle, listing, allowCurrent, current)
}
