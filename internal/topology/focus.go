package topology

import "github.com/google/uuid"

// siblingAfterRemoval picks a replacement id from ids (which must no longer
// contain removedID) for the slot that removedID occupied at removedIndex:
// the entity now at that index (the old "next" sibling), else the one
// before it, else uuid.Nil. Generalizes the "next sibling by index, else
// previous" focus-reassignment rule (spec §4.2) used for panes, surfaces
// and workspaces alike.
func siblingAfterRemoval(ids []uuid.UUID, removedIndex int) uuid.UUID {
	if len(ids) == 0 {
		return uuid.Nil
	}
	if removedIndex < len(ids) {
		return ids[removedIndex]
	}
	return ids[len(ids)-1]
}

// indexOf returns the index of id within ids, or -1.
func indexOf(ids []uuid.UUID, id uuid.UUID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// removeID returns ids with id removed and the index it was removed from
// (-1 if absent).
func removeID(ids []uuid.UUID, id uuid.UUID) ([]uuid.UUID, int) {
	idx := indexOf(ids, id)
	if idx < 0 {
		return ids, -1
	}
	out := make([]uuid.UUID, 0, len(ids)-1)
	out = append(out, ids[:idx]...)
	out = append(out, ids[idx+1:]...)
	return out, idx
}

// insertID returns ids with id inserted at position (clamped to range).
func insertID(ids []uuid.UUID, id uuid.UUID, position int) []uuid.UUID {
	if position < 0 {
		position = 0
	}
	if position > len(ids) {
		position = len(ids)
	}
	out := make([]uuid.UUID, 0, len(ids)+1)
	out = append(out, ids[:position]...)
	out = append(out, id)
	out = append(out, ids[position:]...)
	return out
}

// resolvePositionIndex turns a Position into an absolute insertion index
// against listing (which does not yet contain the entity being placed). An
// entirely unset pos, or a before/after id absent from listing, yields
// len(listing) (append); callers that must fail missing_position on an unset
// pos (workspace.reorder, surface.reorder) check pos.IsZero() themselves.
func resolvePositionIndex(listing []uuid.UUID, pos Position) int {
	switch {
	case pos.Index != nil:
		return *pos.Index
	case pos.AfterID != uuid.Nil:
		if idx := indexOf(listing, pos.AfterID); idx >= 0 {
			return idx + 1
		}
	case pos.BeforeID != uuid.Nil:
		if idx := indexOf(listing, pos.BeforeID); idx >= 0 {
			return idx
		}
	}
	return len(listing)
}
