package topology

import "github.com/google/uuid"

// Position describes where to place an entity relative to an ordered
// listing: explicit index, or before/after another already-resolved
// entity id. Exactly one of these should be set; reorder fails
// missing_position when none are. Callers resolve Before/After handles to
// ids before constructing a Position.
type Position struct {
	BeforeID uuid.UUID
	AfterID  uuid.UUID
	Index    *int
}

// IsZero reports whether no position field was set.
func (p Position) IsZero() bool {
	return p.BeforeID == uuid.Nil && p.AfterID == uuid.Nil && p.Index == nil
}

// MoveOptions carries the optional destination fields for surface.move
// (spec §4.2).
type MoveOptions struct {
	Pane      string
	Workspace string
	Window    string
	Position  Position
	Focus     *bool // nil means "default": focus follows only if already focused
}

// MoveResult is the full identifier bundle returned by surface.move.
type MoveResult struct {
	SurfaceID   uuid.UUID
	PaneID      uuid.UUID
	WorkspaceID uuid.UUID
	WindowID    uuid.UUID
	Index       int
}

// Capabilities is the result of system.capabilities.
type Capabilities struct {
	Protocols    []string `json:"protocols"`
	AccessModes  []string `json:"access_modes"`
	BrowserHost  bool     `json:"browser_host"`
	TerminalHost bool     `json:"terminal_host"`
}

// Identify is the result of system.identify.
type Identify struct {
	WindowID    uuid.UUID `json:"window_id,omitzero"`
	WorkspaceID uuid.UUID `json:"workspace_id,omitzero"`
	PaneID      uuid.UUID `json:"pane_id,omitzero"`
	SurfaceID   uuid.UUID `json:"surface_id,omitzero"`
	WindowRef   string    `json:"window_ref,omitempty"`
	Caller      string    `json:"caller,omitempty"`
}
