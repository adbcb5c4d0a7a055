package model

import (
	"time"

	"github.com/google/uuid"
)

// WindowSnapshot is the frontend/RPC-safe projection of a Window, generalizing
// the teacher's WindowSnapshot (internal/tmux/session_manager.go).
type WindowSnapshot struct {
	ID                  uuid.UUID `json:"window_id"`
	Ref                 string    `json:"window_ref"`
	Workspaces          []string  `json:"workspace_refs"`
	SelectedWorkspaceID uuid.UUID `json:"selected_workspace_id,omitzero"`
	Key                 bool      `json:"key"`
}

// WorkspaceSnapshot is the frontend/RPC-safe projection of a Workspace.
type WorkspaceSnapshot struct {
	ID            uuid.UUID `json:"workspace_id"`
	Ref           string    `json:"workspace_ref"`
	WindowID      uuid.UUID `json:"window_id"`
	WindowRef     string    `json:"window_ref"`
	Title         string    `json:"title"`
	FocusedPaneID uuid.UUID `json:"focused_pane_id,omitzero"`
	OrderIndex    int       `json:"order_index"`
	Statuses      []Status  `json:"statuses,omitempty"`
}

// Status is one agent-integration status indicator set on a workspace via
// `set_status`/`clear_status` (spec §6), keyed by an arbitrary caller-chosen
// key so multiple integrations (e.g. several Claude sessions) can coexist.
type Status struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

// PaneSnapshot is the frontend/RPC-safe projection of a Pane.
type PaneSnapshot struct {
	ID                uuid.UUID `json:"pane_id"`
	Ref               string    `json:"pane_ref"`
	WorkspaceID       uuid.UUID `json:"workspace_id"`
	Surfaces          []string  `json:"surface_refs"`
	SelectedSurfaceID uuid.UUID `json:"selected_surface_id,omitzero"`
}

// SurfaceSnapshot is the frontend/RPC-safe projection of a Surface.
type SurfaceSnapshot struct {
	ID               uuid.UUID `json:"surface_id"`
	Ref              string    `json:"surface_ref"`
	PaneID           uuid.UUID `json:"pane_id"`
	PaneRef          string    `json:"pane_ref"`
	Title            string    `json:"title"`
	Kind             Kind      `json:"kind"`
	OrderIndexInPane int       `json:"index"`
}

// NotificationSnapshot is the frontend/RPC-safe projection of a Notification.
type NotificationSnapshot struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	SurfaceID   uuid.UUID `json:"surface_id,omitzero"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
	IsRead      bool      `json:"is_read"`
}
