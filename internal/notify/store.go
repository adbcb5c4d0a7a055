// Package notify implements the Notification Store (C3): an append-only,
// newest-first log of notifications with read-state and per-window
// routing, generalizing the single-queue discipline of the teacher's
// SessionManager to cmuxterm's notification model (spec §4.3).
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"cmuxterm/internal/corerr"
	"cmuxterm/internal/model"
)

// Store holds notifications in memory, guarded by a mutex: unlike the
// Topology Store, notifications have no split-tree-shaped invariants to
// serialize through a scheduler, so a plain RWMutex (as the teacher uses
// for its SessionManager) is enough.
type Store struct {
	mu    sync.RWMutex
	items []*model.Notification // newest first
	now   func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Add inserts a new notification at the front of the log and returns its
// id (spec §4.3 add).
func (s *Store) Add(workspaceID, surfaceID uuid.UUID, title, subtitle, body string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := &model.Notification{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		SurfaceID:   surfaceID,
		Title:       title,
		Subtitle:    subtitle,
		Body:        body,
		CreatedAt:   s.now(),
	}
	s.items = append([]*model.Notification{n}, s.items...)
	return n.ID
}

// List returns every notification, newest first.
func (s *Store) List() []model.NotificationSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.NotificationSnapshot, len(s.items))
	for i, n := range s.items {
		out[i] = snapshot(n)
	}
	return out
}

// MarkRead marks notifications read by id, workspace, or surface — whichever
// of the three is non-zero; zero value on all three is a no-op.
func (s *Store) MarkRead(id, workspaceID, surfaceID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.items {
		switch {
		case id != uuid.Nil:
			if n.ID == id {
				n.IsRead = true
			}
		case workspaceID != uuid.Nil && surfaceID != uuid.Nil:
			if n.WorkspaceID == workspaceID && n.SurfaceID == surfaceID {
				n.IsRead = true
			}
		case workspaceID != uuid.Nil:
			if n.WorkspaceID == workspaceID {
				n.IsRead = true
			}
		case surfaceID != uuid.Nil:
			if n.SurfaceID == surfaceID {
				n.IsRead = true
			}
		}
	}
}

// MarkReadForFocus runs the automatic "mark read" pass for the currently
// focused (workspace, surface) tuple, used when the host app becomes active
// (spec §4.3: "Mark read happens automatically when the focused tuple
// matches the notification's target, AND the app is active").
func (s *Store) MarkReadForFocus(workspaceID, surfaceID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.items {
		if n.WorkspaceID == workspaceID && n.SurfaceID == surfaceID {
			n.IsRead = true
		}
	}
}

// Remove deletes the notification with the given id.
func (s *Store) Remove(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.items {
		if n.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return corerr.New(corerr.NotFound, "notification %s not found", id)
}

// ClearAll removes every notification.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// UnreadCount returns the number of unread notifications.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, it := range s.items {
		if !it.IsRead {
			n++
		}
	}
	return n
}

// LatestUnread returns the newest unread notification, if any.
func (s *Store) LatestUnread() (model.NotificationSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.items {
		if !n.IsRead {
			return snapshot(n), true
		}
	}
	return model.NotificationSnapshot{}, false
}

// FocusFor returns the (workspace, surface) a notification should route
// focus to (spec §4.3 focus_for).
func (s *Store) FocusFor(id uuid.UUID) (workspaceID, surfaceID uuid.UUID, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.items {
		if n.ID == id {
			return n.WorkspaceID, n.SurfaceID, nil
		}
	}
	return uuid.Nil, uuid.Nil, corerr.New(corerr.NotFound, "notification %s not found", id)
}

func snapshot(n *model.Notification) model.NotificationSnapshot {
	return model.NotificationSnapshot{
		ID:          n.ID,
		WorkspaceID: n.WorkspaceID,
		SurfaceID:   n.SurfaceID,
		Title:       n.Title,
		Subtitle:    n.Subtitle,
		Body:        n.Body,
		CreatedAt:   n.CreatedAt,
		IsRead:      n.IsRead,
	}
}
