// Package topology implements the Handle & Reference Resolver (C1) and the
// Topology Store (C2): the in-memory graph of Windows, Workspaces, Panes,
// Surfaces and Panels, generalizing the teacher's internal/tmux
// SessionManager (session_manager.go and friends) from a flat
// session/window/pane hierarchy to cmuxterm's five-entity-kind topology.
//
// All mutation and resolution runs on a single logical scheduler goroutine,
// matching the teacher's single-writer SessionManager discipline but
// replacing its sync.RWMutex with an explicit message queue, per the
// "Socket Server handlers never mutate core state directly" requirement:
// callers submit a closure and block until it has run on the scheduler.
package topology

import (
	"log/slog"

	"github.com/google/uuid"

	"cmuxterm/internal/corerr"
	"cmuxterm/internal/model"
	"cmuxterm/internal/splittree"
)

// Store owns every topology entity and the per-workspace split trees.
type Store struct {
	reqCh chan func()

	windows    map[uuid.UUID]*model.Window
	workspaces map[uuid.UUID]*model.Workspace
	panes      map[uuid.UUID]*model.Pane
	surfaces   map[uuid.UUID]*model.Surface
	panels     map[uuid.UUID]*model.Panel
	trees      map[uuid.UUID]*splittree.Node // workspace id -> split tree root

	windowOrder []uuid.UUID
	keyWindowID uuid.UUID

	statuses map[uuid.UUID]map[string]model.Status // workspace id -> status key -> status

	refs     *model.RefAllocator
	byRef    map[string]uuid.UUID
	kindByID map[uuid.UUID]model.EntityKind

	log *slog.Logger
}

// NewStore creates a Store and starts its scheduler goroutine.
func NewStore(log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{
		reqCh:      make(chan func(), 64),
		windows:    map[uuid.UUID]*model.Window{},
		workspaces: map[uuid.UUID]*model.Workspace{},
		panes:      map[uuid.UUID]*model.Pane{},
		surfaces:   map[uuid.UUID]*model.Surface{},
		panels:     map[uuid.UUID]*model.Panel{},
		trees:      map[uuid.UUID]*splittree.Node{},
		refs:       model.NewRefAllocator(),
		byRef:      map[string]uuid.UUID{},
		kindByID:   map[uuid.UUID]model.EntityKind{},
		statuses:   map[uuid.UUID]map[string]model.Status{},
		log:        log,
	}
	go s.run()
	return s
}

// Close stops the scheduler goroutine. Pending submissions already queued
// are drained before the goroutine exits.
func (s *Store) Close() {
	close(s.reqCh)
}

func (s *Store) run() {
	for fn := range s.reqCh {
		fn()
	}
}

// submit runs fn on the scheduler goroutine and blocks until it returns.
func (s *Store) submit(fn func()) {
	done := make(chan struct{})
	s.reqCh <- func() {
		defer close(done)
		fn()
	}
	<-done
}

// assignRef mints the next ref for kind and indexes it for handle lookups.
func (s *Store) assignRef(kind model.EntityKind, id uuid.UUID) string {
	ref := s.refs.Next(kind)
	s.byRef[ref] = id
	s.kindByID[id] = kind
	return ref
}

func (s *Store) forgetRef(ref string, id uuid.UUID) {
	delete(s.byRef, ref)
	delete(s.kindByID, id)
}

// keyWindow returns the key window, or nil if none is set.
func (s *Store) keyWindow() *model.Window {
	if s.keyWindowID == uuid.Nil {
		return nil
	}
	return s.windows[s.keyWindowID]
}

// focusedTuple returns the currently focused (window, workspace, pane,
// surface) ids; zero UUIDs are substituted where a level has no selection.
func (s *Store) focusedTuple() (windowID, workspaceID, paneID, surfaceID uuid.UUID) {
	w := s.keyWindow()
	if w == nil {
		return
	}
	windowID = w.ID
	workspaceID = w.SelectedWorkspaceID
	if workspaceID == uuid.Nil {
		return
	}
	ws := s.workspaces[workspaceID]
	if ws == nil {
		return
	}
	paneID = ws.FocusedPaneID
	if paneID == uuid.Nil {
		return
	}
	p := s.panes[paneID]
	if p == nil {
		return
	}
	surfaceID = p.SelectedSurfaceID
	return
}

func (s *Store) setKeyWindow(id uuid.UUID) {
	for _, w := range s.windows {
		w.Key = w.ID == id
	}
	s.keyWindowID = id
}

func notFound(kind model.EntityKind, handle string) error {
	return corerr.New(corerr.NotFound, "%s %q not found", kind, handle)
}
