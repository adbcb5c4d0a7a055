// Package model defines the topology entities (spec §3): Window, Workspace,
// Pane, Surface, Panel, Notification and ClaudeSession, plus their
// frontend-safe *Snapshot projections.
//
// Entities reference each other by UUID only (never by pointer), matching
// the arena-of-UUIDs design called out in spec §9: the topology is owned
// exclusively by internal/topology.Store, and these structs are plain data.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies the rendering content behind a Surface / Panel.
type Kind string

const (
	KindTerminal Kind = "terminal"
	KindBrowser  Kind = "browser"
)

// EntityKind identifies which of the five entity kinds a ref belongs to.
type EntityKind string

const (
	KindWindow    EntityKind = "window"
	KindWorkspace EntityKind = "workspace"
	KindPane      EntityKind = "pane"
	KindSurface   EntityKind = "surface"
)

// Window is the top-level application container (spec §3).
type Window struct {
	ID                  uuid.UUID
	Ref                 string
	Workspaces          []uuid.UUID
	SelectedWorkspaceID uuid.UUID // uuid.Nil when none selected
	Key                 bool
}

// Workspace is one sidebar "tab" holding a split tree of panes (spec §3).
type Workspace struct {
	ID              uuid.UUID
	Ref             string
	WindowID        uuid.UUID
	Title           string
	FocusedPaneID   uuid.UUID
	OrderIndex      int
	RootPaneID      uuid.UUID // root of the per-workspace split tree (internal/splittree)
}

// Pane is a leaf of the workspace split tree (spec §3).
type Pane struct {
	ID                uuid.UUID
	Ref               string
	WorkspaceID       uuid.UUID
	Surfaces          []uuid.UUID
	SelectedSurfaceID uuid.UUID
}

// Surface is one tab within a pane, owning exactly one Panel (spec §3).
type Surface struct {
	ID               uuid.UUID
	Ref              string
	PaneID           uuid.UUID
	PanelID          uuid.UUID
	Title            string
	Kind             Kind
	OrderIndexInPane int
}

// Panel is the rendering object owned by the external collaborator; the
// core stores only the identifier and kind (spec §3, §9).
type Panel struct {
	ID        uuid.UUID
	SurfaceID uuid.UUID
	Kind      Kind
	Host      string // opaque host handle, e.g. a webview/terminal session id
}

// Notification is an entry in the append-only notification log (spec §3).
type Notification struct {
	ID          uuid.UUID
	WorkspaceID uuid.UUID
	SurfaceID   uuid.UUID // uuid.Nil when none
	Title       string
	Subtitle    string
	Body        string
	CreatedAt   time.Time
	IsRead      bool
}

// ClaudeSession tracks one agent session reported via Claude hooks (spec §3).
type ClaudeSession struct {
	SessionID    string
	WorkspaceID  uuid.UUID
	SurfaceID    uuid.UUID
	Cwd          string
	LastSubtitle string
	LastBody     string
	StartedAt    time.Time
	UpdatedAt    time.Time
}
