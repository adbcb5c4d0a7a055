package dispatch

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"cmuxterm/internal/browser"
	"cmuxterm/internal/claudehook"
	"cmuxterm/internal/config"
	"cmuxterm/internal/hooksession"
	"cmuxterm/internal/notify"
	"cmuxterm/internal/topology"
)

// fakeTerminalHost is a minimal hostiface.TerminalHost for exercising
// send/send_key without a real PTY.
type fakeTerminalHost struct {
	written map[string][]byte
}

func newFakeTerminalHost() *fakeTerminalHost {
	return &fakeTerminalHost{written: map[string][]byte{}}
}

func (f *fakeTerminalHost) Spawn(ctx context.Context, surfaceID uuid.UUID, cwd string) (string, error) {
	return "", nil
}
func (f *fakeTerminalHost) Write(handle string, data []byte) error {
	f.written[handle] = append(f.written[handle], data...)
	return nil
}
func (f *fakeTerminalHost) Resize(handle string, cols, rows int) error { return nil }
func (f *fakeTerminalHost) Close(handle string) error                 { return nil }

// fakeBrowserHost is a minimal hostiface.BrowserHost.
type fakeBrowserHost struct {
	navigated map[string]string
}

func newFakeBrowserHost() *fakeBrowserHost {
	return &fakeBrowserHost{navigated: map[string]string{}}
}

func (f *fakeBrowserHost) Navigate(handle, url string) error {
	f.navigated[handle] = url
	return nil
}
func (f *fakeBrowserHost) Back(handle string) error    { return nil }
func (f *fakeBrowserHost) Forward(handle string) error { return nil }
func (f *fakeBrowserHost) Reload(handle string) error  { return nil }
func (f *fakeBrowserHost) Eval(ctx context.Context, handle, script string) (any, error) {
	return "", nil
}
func (f *fakeBrowserHost) Screenshot(handle string) (string, error) { return "", nil }
func (f *fakeBrowserHost) Close(handle string) error                { return nil }

type testRig struct {
	topo     *topology.Store
	notifies *notify.Store
	term     *fakeTerminalHost
	browserH *fakeBrowserHost
	engine   *Engine
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	topo := topology.NewStore(nil)
	t.Cleanup(topo.Close)
	notifies := notify.NewStore()
	term := newFakeTerminalHost()
	bhost := newFakeBrowserHost()
	adapter := browser.New(topo, bhost)
	sessions, err := hooksession.New(filepath.Join(t.TempDir(), "sessions.json"))
	require.NoError(t, err)
	hook := claudehook.New(topo, notifies, sessions)
	engine := New(topo, notifies, adapter, hook, sessions, term, config.AccessFull)
	topo.WindowNew() // window:1, workspace:1, pane:1
	return &testRig{topo: topo, notifies: notifies, term: term, browserH: bhost, engine: engine}
}

func TestHandleLineRoutesV1AndV2(t *testing.T) {
	rig := newTestRig(t)
	require.Equal(t, "PONG", rig.engine.HandleLine(context.Background(), "ping"))

	out := rig.engine.HandleLine(context.Background(), `{"id":"1","method":"system.capabilities","params":{}}`)
	var resp V2Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.True(t, resp.OK)
	require.Equal(t, "1", resp.ID)
}

// Scenario 1: new surface in the focused workspace (spec §8 scenario 1).
func TestScenarioNewSurfaceInFocusedWorkspace(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	_, err := rig.topo.SurfaceNew("terminal", "", "")
	require.NoError(t, err)

	out := rig.engine.HandleLine(ctx, "new_surface --type=terminal")
	require.Regexp(t, `^OK `, out)

	panesOut := rig.engine.HandleLine(ctx, "list_panes")
	require.Contains(t, panesOut, "pane:1")

	surfacesOut := rig.engine.HandleLine(ctx, "list_pane_surfaces --pane=pane:1")
	lines := splitNonEmpty(surfacesOut)
	require.Len(t, lines, 2)
	require.True(t, lines[1][0] == '*', "newest surface should be focused: %q", surfacesOut)
}

// Scenario 2: reorder surfaces by index, focus unaffected (spec §8 scenario 2).
func TestScenarioReorderSurfacesByIndex(t *testing.T) {
	rig := newTestRig(t)

	s1, err := rig.topo.SurfaceNew("terminal", "", "")
	require.NoError(t, err)
	s2, err := rig.topo.SurfaceNew("terminal", "", "")
	require.NoError(t, err)
	s3, err := rig.topo.SurfaceNew("terminal", "", "")
	require.NoError(t, err)
	_, err = rig.topo.SurfaceFocus(s2.Ref)
	require.NoError(t, err)

	err = rig.topo.SurfaceReorder(s3.Ref, topology.Position{Index: intPtr(0)})
	require.NoError(t, err)

	surfaces, err := rig.topo.SurfaceList("")
	require.NoError(t, err)
	require.Equal(t, []string{s3.ID.String(), s1.ID.String(), s2.ID.String()},
		[]string{surfaces[0].ID.String(), surfaces[1].ID.String(), surfaces[2].ID.String()})

	pane, err := rig.topo.PaneFocus("")
	require.NoError(t, err)
	require.Equal(t, s2.ID, pane.SelectedSurfaceID)
}

// Scenario 3: Claude hook notification suppression (spec §8 scenario 3),
// driven through the dispatcher's claude_hook verb rather than calling
// claudehook.Engine directly, exercising the CLI-facing wiring.
func TestScenarioClaudeHookNotificationSuppression(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	id := rig.topo.SystemIdentify("")
	require.NoError(t, rig.engine.sessions.Upsert(
		"sess-42", id.WorkspaceID, id.SurfaceID, "", "Waiting", "Claude is waiting for your input [sess-42]",
	))

	payload, err := json.Marshal(map[string]any{
		"hook_event_name": "Notification",
		"session_id":      "sess-42",
		"message":         "Claude is waiting for your input",
	})
	require.NoError(t, err)

	out := rig.engine.HandleLine(ctx, "claude_hook notification "+string(payload))
	require.Equal(t, "OK", out)
	require.Empty(t, rig.notifies.List())
}

// Scenario 4: close the last window via the CLI-facing verb (spec §8
// scenario 4).
func TestScenarioCloseLastWindowViaCLI(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	out := rig.engine.HandleLine(ctx, "close_window window:1")
	require.Equal(t, "OK", out)

	require.Equal(t, "No windows", rig.engine.HandleLine(ctx, "list_windows"))
}

// Scenario 5: v2 identify after a window.focus call (spec §8 scenario 5).
func TestScenarioV2IdentifyAfterWindowFocus(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()
	rig.topo.WindowNew() // window:2

	focusOut := rig.engine.HandleLine(ctx, `{"id":"f","method":"window.focus","params":{"window":"window:2"}}`)
	var focusResp V2Response
	require.NoError(t, json.Unmarshal([]byte(focusOut), &focusResp))
	require.True(t, focusResp.OK)

	identOut := rig.engine.HandleLine(ctx, `{"id":"i","method":"system.identify","params":{}}`)
	require.Contains(t, identOut, `"window_ref":"window:2"`)
}

// Scenario 6: browser open reuses an existing split (spec §8 scenario 6).
func TestScenarioBrowserOpenReusesExistingSplit(t *testing.T) {
	rig := newTestRig(t)
	ctx := context.Background()

	b, err := rig.topo.SurfaceNew("browser", "", "about:blank")
	require.NoError(t, err)
	panel, err := rig.topo.PanelFor(b.Ref)
	require.NoError(t, err)

	openOut := rig.engine.HandleLine(ctx, "open_browser https://example.com")
	require.Regexp(t, `^OK `, openOut)
	require.Contains(t, openOut, b.Ref)
	require.Equal(t, "https://example.com", rig.browserH.navigated[panel.Host])
}

func TestAccessModeGating(t *testing.T) {
	rig := newTestRig(t)
	rig.engine.SetAccessMode(config.AccessOff)
	require.Equal(t, "PONG", rig.engine.HandleLine(context.Background(), "ping"))
	require.Contains(t, rig.engine.HandleLine(context.Background(), "list_windows"), "ERROR")

	rig.engine.SetAccessMode(config.AccessNotificationsOnly)
	require.Equal(t, "OK", rig.engine.HandleLine(context.Background(), "notify hi|there|body"))
	require.Contains(t, rig.engine.HandleLine(context.Background(), "list_windows"), "ERROR")

	out := rig.engine.HandleLine(context.Background(), `{"id":"1","method":"system.capabilities","params":{}}`)
	require.Contains(t, out, `"ok":false`)
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, line := range splitLines(s) {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func intPtr(i int) *int { return &i }
