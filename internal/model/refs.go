package model

import "fmt"

// RefAllocator assigns monotonic per-kind ref integers, generalizing the
// teacher's nextSessionID/nextPaneID counters (internal/tmux/session_manager.go)
// to cmuxterm's four ref-bearing kinds. Refs are never reused within a
// process lifetime (spec §4.1). RefAllocator itself is not safe for
// concurrent use; topology.Store calls it only from its scheduler goroutine.
type RefAllocator struct {
	next map[EntityKind]int
}

// NewRefAllocator creates an allocator with all counters starting at 1.
func NewRefAllocator() *RefAllocator {
	return &RefAllocator{next: map[EntityKind]int{}}
}

// Next returns the next ref string for kind, e.g. "window:3".
func (a *RefAllocator) Next(kind EntityKind) string {
	n := a.next[kind] + 1
	a.next[kind] = n
	return fmt.Sprintf("%s:%d", kind, n)
}
