package splittree

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSplitPane(t *testing.T) {
	p1 := uuid.New()
	p2 := uuid.New()
	root := NewLeaf(p1)

	root, ok := SplitPane(root, p1, Vertical, p2, false)
	require.True(t, ok)
	require.Equal(t, Split, root.Type)
	require.Equal(t, []uuid.UUID{p1, p2}, AllPanes(root))

	p3 := uuid.New()
	root, ok = SplitPane(root, p2, Horizontal, p3, true)
	require.True(t, ok)
	require.Equal(t, []uuid.UUID{p1, p3, p2}, AllPanes(root))
}

func TestSplitPaneNotFound(t *testing.T) {
	root := NewLeaf(uuid.New())
	_, ok := SplitPane(root, uuid.New(), Vertical, uuid.New(), false)
	require.False(t, ok)
}

func TestCollapseNonRoot(t *testing.T) {
	p1, p2, p3 := uuid.New(), uuid.New(), uuid.New()
	root := NewLeaf(p1)
	root, _ = SplitPane(root, p1, Vertical, p2, false)
	root, _ = SplitPane(root, p2, Horizontal, p3, false)

	root, removed := Collapse(root, p2)
	require.True(t, removed)
	require.Equal(t, []uuid.UUID{p1, p3}, AllPanes(root))
}

func TestCollapseCollapsesToSingleLeaf(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	root := NewLeaf(p1)
	root, _ = SplitPane(root, p1, Vertical, p2, false)

	root, removed := Collapse(root, p2)
	require.True(t, removed)
	require.Equal(t, Leaf, root.Type)
	require.Equal(t, p1, root.PaneID)
}

func TestAllPanesInOrder(t *testing.T) {
	p1, p2, p3, p4 := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	root := NewLeaf(p1)
	root, _ = SplitPane(root, p1, Vertical, p4, false)  // p1, p4
	root, _ = SplitPane(root, p1, Horizontal, p2, false) // p1, p2, p4
	root, _ = SplitPane(root, p4, Horizontal, p3, true)  // p1, p2, p3, p4

	require.Equal(t, []uuid.UUID{p1, p2, p3, p4}, AllPanes(root))
}

func TestSwapPaneIDs(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	root := NewLeaf(p1)
	root, _ = SplitPane(root, p1, Vertical, p2, false)

	root = SwapPaneIDs(root, p1, p2)
	require.Equal(t, []uuid.UUID{p2, p1}, AllPanes(root))
}

func TestIsRootLeaf(t *testing.T) {
	p1 := uuid.New()
	root := NewLeaf(p1)
	require.True(t, IsRootLeaf(root, p1))

	p2 := uuid.New()
	root, _ = SplitPane(root, p1, Vertical, p2, false)
	require.False(t, IsRootLeaf(root, p1))
}

func TestFindLeaf(t *testing.T) {
	p1, p2, p3 := uuid.New(), uuid.New(), uuid.New()
	root := NewLeaf(p1)
	root, _ = SplitPane(root, p1, Vertical, p2, false)

	require.True(t, FindLeaf(root, p1))
	require.True(t, FindLeaf(root, p2))
	require.False(t, FindLeaf(root, p3))
}

func TestClone(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	root := NewLeaf(p1)
	root, _ = SplitPane(root, p1, Vertical, p2, false)

	clone := Clone(root)
	clone.First.PaneID = uuid.New()
	require.NotEqual(t, root.First.PaneID, clone.First.PaneID)
}
