package notify

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestAddIsNewestFirst(t *testing.T) {
	s := NewStore()
	ws := uuid.New()
	first := s.Add(ws, uuid.Nil, "t1", "", "")
	second := s.Add(ws, uuid.Nil, "t2", "", "")

	list := s.List()
	require.Len(t, list, 2)
	require.Equal(t, second, list[0].ID)
	require.Equal(t, first, list[1].ID)
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	s := NewStore()
	ws := uuid.New()
	id := s.Add(ws, uuid.Nil, "t", "", "")
	require.Equal(t, 1, s.UnreadCount())

	s.MarkRead(id, uuid.Nil, uuid.Nil)
	require.Equal(t, 0, s.UnreadCount())
}

func TestMarkReadForFocus(t *testing.T) {
	s := NewStore()
	ws, sfc := uuid.New(), uuid.New()
	s.Add(ws, sfc, "t", "", "")
	s.Add(uuid.New(), uuid.New(), "other", "", "")

	s.MarkReadForFocus(ws, sfc)
	require.Equal(t, 1, s.UnreadCount())
}

func TestRemoveAndClearAll(t *testing.T) {
	s := NewStore()
	id := s.Add(uuid.New(), uuid.Nil, "t", "", "")

	require.NoError(t, s.Remove(id))
	require.Error(t, s.Remove(id))

	s.Add(uuid.New(), uuid.Nil, "a", "", "")
	s.Add(uuid.New(), uuid.Nil, "b", "", "")
	s.ClearAll()
	require.Empty(t, s.List())
}

func TestLatestUnread(t *testing.T) {
	s := NewStore()
	_, ok := s.LatestUnread()
	require.False(t, ok)

	id := s.Add(uuid.New(), uuid.Nil, "t", "", "")
	latest, ok := s.LatestUnread()
	require.True(t, ok)
	require.Equal(t, id, latest.ID)
}

func TestFocusFor(t *testing.T) {
	s := NewStore()
	ws, sfc := uuid.New(), uuid.New()
	id := s.Add(ws, sfc, "t", "", "")

	gotWS, gotSfc, err := s.FocusFor(id)
	require.NoError(t, err)
	require.Equal(t, ws, gotWS)
	require.Equal(t, sfc, gotSfc)

	_, _, err = s.FocusFor(uuid.New())
	require.Error(t, err)
}
