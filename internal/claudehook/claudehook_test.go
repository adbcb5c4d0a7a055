package claudehook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"cmuxterm/internal/hooksession"
	"cmuxterm/internal/notify"
	"cmuxterm/internal/topology"
)

func newTestEngine(t *testing.T) (*Engine, *topology.Store, *notify.Store, *hooksession.Store) {
	t.Helper()
	topo := topology.NewStore(nil)
	t.Cleanup(topo.Close)
	notifies := notify.NewStore()
	sessions, err := hooksession.New(filepath.Join(t.TempDir(), "sessions.json"))
	require.NoError(t, err)
	t.Cleanup(func() { sessions.Close() })
	return New(topo, notifies, sessions), topo, notifies, sessions
}

func TestClassify(t *testing.T) {
	require.Equal(t, Permission, classify(map[string]any{"message": "needs your approval to proceed"}))
	require.Equal(t, ErrorClass, classify(map[string]any{"message": "the command failed"}))
	require.Equal(t, Waiting, classify(map[string]any{"message": "Claude is waiting for your input"}))
	require.Equal(t, Attention, classify(map[string]any{"message": "something happened"}))
}

func TestSessionStartSetsRunningStatus(t *testing.T) {
	e, topo, _, sessions := newTestEngine(t)
	topo.WindowNew()
	ws, err := topo.WorkspaceCurrent()
	require.NoError(t, err)

	err = e.SessionStart(ws.ID, uuid.Nil, map[string]any{"session_id": "sess-1", "cwd": "/tmp/proj"})
	require.NoError(t, err)

	cur, err := topo.WorkspaceCurrent()
	require.NoError(t, err)
	require.Len(t, cur.Statuses, 1)
	require.Equal(t, "Running", cur.Statuses[0].Value)

	rec, ok, err := sessions.Lookup("sess-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "/tmp/proj", rec.Cwd)
}

func TestNotificationEmitsAndUpdatesStatus(t *testing.T) {
	e, topo, notifies, _ := newTestEngine(t)
	topo.WindowNew()
	ws, _ := topo.WorkspaceCurrent()

	err := e.Notification(ws.ID, uuid.Nil, map[string]any{
		"session_id": "sess-1",
		"message":    "Claude is waiting for your input",
	})
	require.NoError(t, err)

	list := notifies.List()
	require.Len(t, list, 1)
	require.Equal(t, "Waiting", list[0].Subtitle)

	cur, _ := topo.WorkspaceCurrent()
	require.Equal(t, "Waiting", cur.Statuses[0].Value)
}

func TestNotificationSuppressesDuplicate(t *testing.T) {
	e, topo, notifies, sessions := newTestEngine(t)
	topo.WindowNew()
	ws, _ := topo.WorkspaceCurrent()

	require.NoError(t, sessions.Upsert("sess-42", ws.ID, uuid.Nil, "", "Waiting", "Claude is waiting for your input [sess-42]"))

	err := e.Notification(ws.ID, uuid.Nil, map[string]any{
		"hook_event_name": "Notification",
		"session_id":      "sess-42",
		"message":         "Claude is waiting for your input",
	})
	require.NoError(t, err)

	require.Empty(t, notifies.List())
	cur, _ := topo.WorkspaceCurrent()
	require.Equal(t, "Running", cur.Statuses[0].Value)
}

func TestNonActionableOnlyRefreshesRunning(t *testing.T) {
	e, topo, notifies, _ := newTestEngine(t)
	topo.WindowNew()
	ws, _ := topo.WorkspaceCurrent()

	err := e.Notification(ws.ID, uuid.Nil, map[string]any{"message": "processing request"})
	require.NoError(t, err)

	require.Empty(t, notifies.List())
	cur, _ := topo.WorkspaceCurrent()
	require.Equal(t, "Running", cur.Statuses[0].Value)
}

func TestStopClearsStatusAndEmitsCompletedNotification(t *testing.T) {
	e, topo, notifies, sessions := newTestEngine(t)
	topo.WindowNew()
	ws, _ := topo.WorkspaceCurrent()

	require.NoError(t, sessions.Upsert("sess-1", ws.ID, uuid.Nil, "/tmp/proj", "", ""))
	require.NoError(t, topo.SetStatus(ws.ID.String(), statusKey, "Running", "bolt", "#34C759"))

	err := e.Stop(ws.ID, uuid.Nil, map[string]any{"session_id": "sess-1"})
	require.NoError(t, err)

	cur, _ := topo.WorkspaceCurrent()
	require.Empty(t, cur.Statuses)

	list := notifies.List()
	require.Len(t, list, 1)
	require.Equal(t, "Completed", list[0].Subtitle)
	require.Contains(t, list[0].Body, "/tmp/proj")

	_, ok, _ := sessions.Lookup("sess-1")
	require.False(t, ok)
}

func TestStopReadsTranscriptForBody(t *testing.T) {
	e, topo, notifies, sessions := newTestEngine(t)
	topo.WindowNew()
	ws, _ := topo.WorkspaceCurrent()
	require.NoError(t, sessions.Upsert("sess-1", ws.ID, uuid.Nil, "", "", ""))

	transcriptPath := filepath.Join(t.TempDir(), "transcript.jsonl")
	content := `{"type":"user","message":{"role":"user","content":"do the thing"}}
{"type":"assistant","message":{"role":"assistant","content":[{"type":"text","text":"Done, all tests pass."}]}}
`
	require.NoError(t, os.WriteFile(transcriptPath, []byte(content), 0o600))

	err := e.Stop(ws.ID, uuid.Nil, map[string]any{"session_id": "sess-1", "transcript_path": transcriptPath})
	require.NoError(t, err)

	list := notifies.List()
	require.Len(t, list, 1)
	require.Equal(t, "Done, all tests pass.", list[0].Body)
}

func TestNormalizeBodyTruncatesAndSuffixesSession(t *testing.T) {
	body := normalizeBody("line one\nline two", "abcdef1234567890")
	require.Equal(t, "line one line two [abcdef12]", body)
}
