package hooksession

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claude-hook-sessions.json")
	s, err := New(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNormalizeSessionID(t *testing.T) {
	require.Equal(t, "no session", NormalizeSessionID(""))
	require.Equal(t, "no session", NormalizeSessionID("   "))
	require.Equal(t, "abc", NormalizeSessionID("  abc  "))
}

func TestUpsertAndLookup(t *testing.T) {
	s := newTestStore(t)
	ws, sfc := uuid.New(), uuid.New()

	require.NoError(t, s.Upsert("sess-1", ws, sfc, "/home/x", "", ""))

	rec, ok, err := s.Lookup("sess-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, ws, rec.WorkspaceID)
	require.Equal(t, sfc, rec.SurfaceID)
	require.Equal(t, "/home/x", rec.Cwd)
	require.False(t, rec.StartedAt.IsZero())
}

func TestUpsertUpdatesExistingRecord(t *testing.T) {
	s := newTestStore(t)
	ws1, sfc1 := uuid.New(), uuid.New()
	ws2, sfc2 := uuid.New(), uuid.New()

	require.NoError(t, s.Upsert("sess-1", ws1, sfc1, "/a", "", ""))
	first, _, _ := s.Lookup("sess-1")

	require.NoError(t, s.Upsert("sess-1", ws2, sfc2, "/b", "waiting", "needs input"))
	second, ok, err := s.Lookup("sess-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, ws2, second.WorkspaceID)
	require.Equal(t, "/b", second.Cwd)
	require.Equal(t, "waiting", second.LastSubtitle)
	require.Equal(t, first.StartedAt, second.StartedAt)
}

func TestLookupMissingReturnsNotFound(t *testing.T) {
	s := newTestStore(t)
	_, ok, err := s.Lookup("nope")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestConsumeBySessionID(t *testing.T) {
	s := newTestStore(t)
	ws, sfc := uuid.New(), uuid.New()
	require.NoError(t, s.Upsert("sess-1", ws, sfc, "", "", ""))

	rec, ok, err := s.Consume(ConsumeQuery{SessionID: "sess-1"})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, ws, rec.WorkspaceID)

	_, ok, err = s.Lookup("sess-1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestConsumeFallsBackToNewestMatchingSurface(t *testing.T) {
	s := newTestStore(t)
	ws := uuid.New()
	sfc := uuid.New()

	require.NoError(t, s.Upsert("older", ws, sfc, "", "", ""))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, s.Upsert("newer", ws, sfc, "", "", ""))

	rec, ok, err := s.Consume(ConsumeQuery{SessionID: "unknown-session", SurfaceID: sfc})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "newer", rec.SessionID)
}

func TestConsumeFallsBackToSoleWorkspaceMatch(t *testing.T) {
	s := newTestStore(t)
	ws := uuid.New()
	require.NoError(t, s.Upsert("only", ws, uuid.New(), "", "", ""))

	rec, ok, err := s.Consume(ConsumeQuery{SessionID: "unknown", WorkspaceID: ws})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "only", rec.SessionID)
}

func TestConsumeReturnsNoneWhenWorkspaceAmbiguous(t *testing.T) {
	s := newTestStore(t)
	ws := uuid.New()
	require.NoError(t, s.Upsert("one", ws, uuid.New(), "", "", ""))
	require.NoError(t, s.Upsert("two", ws, uuid.New(), "", "", ""))

	_, ok, err := s.Consume(ConsumeQuery{SessionID: "unknown", WorkspaceID: ws})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPruneExpiredRemovesStaleRecords(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.Unix(0, 0) }
	require.NoError(t, s.Upsert("stale", uuid.New(), uuid.New(), "", "", ""))

	s.now = func() time.Time { return time.Unix(0, 0).Add(8 * 24 * time.Hour) }
	_, ok, err := s.Lookup("stale")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRoundTripPersistsAcrossStoreInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claude-hook-sessions.json")
	s1, err := New(path)
	require.NoError(t, err)
	ws, sfc := uuid.New(), uuid.New()
	require.NoError(t, s1.Upsert("sess-1", ws, sfc, "/x", "", ""))
	s1.Close()

	s2, err := New(path)
	require.NoError(t, err)
	defer s2.Close()
	rec, ok, err := s2.Lookup("sess-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, ws, rec.WorkspaceID)
}
