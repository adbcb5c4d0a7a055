package browser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"cmuxterm/internal/model"
	"cmuxterm/internal/topology"
)

type fakeHost struct {
	navigated map[string]string
}

func newFakeHost() *fakeHost { return &fakeHost{navigated: map[string]string{}} }

func (f *fakeHost) Navigate(handle, url string) error { f.navigated[handle] = url; return nil }
func (f *fakeHost) Back(handle string) error           { return nil }
func (f *fakeHost) Forward(handle string) error        { return nil }
func (f *fakeHost) Reload(handle string) error         { return nil }
func (f *fakeHost) Eval(ctx context.Context, handle, script string) (any, error) {
	return "ok", nil
}
func (f *fakeHost) Screenshot(handle string) (string, error) { return "base64data", nil }
func (f *fakeHost) Close(handle string) error                 { return nil }

func TestUnsupportedMethod(t *testing.T) {
	topo := topology.NewStore(nil)
	defer topo.Close()
	topo.WindowNew()

	a := New(topo, newFakeHost())
	_, err := a.Call(context.Background(), "viewport.set", "", nil)
	require.Error(t, err)
}

func TestOpenSplitCreatesThenReuses(t *testing.T) {
	topo := topology.NewStore(nil)
	defer topo.Close()
	topo.WindowNew()

	a := New(topo, newFakeHost())
	res, err := a.Call(context.Background(), "open_split", "", map[string]any{"url": "https://example.com"})
	require.NoError(t, err)
	require.Equal(t, true, res["created_split"])

	res2, err := a.Call(context.Background(), "open_split", "", map[string]any{"url": "https://example.com/2"})
	require.NoError(t, err)
	require.Equal(t, false, res2["created_split"])
	require.Equal(t, res["surface_ref"], res2["surface_ref"])
}

func TestNavigate(t *testing.T) {
	topo := topology.NewStore(nil)
	defer topo.Close()
	topo.WindowNew()
	sfc, err := topo.SurfaceNew(model.KindBrowser, "", "")
	require.NoError(t, err)

	host := newFakeHost()
	a := New(topo, host)
	_, err = a.Call(context.Background(), "navigate", sfc.Ref, map[string]any{"url": "https://example.com"})
	require.NoError(t, err)
}

func TestWaitWithoutSelectorReturnsImmediately(t *testing.T) {
	topo := topology.NewStore(nil)
	defer topo.Close()
	topo.WindowNew()
	sfc, err := topo.SurfaceNew(model.KindBrowser, "", "")
	require.NoError(t, err)

	a := New(topo, newFakeHost())
	res, err := a.Call(context.Background(), "wait", sfc.Ref, map[string]any{"timeout_ms": float64(100)})
	require.NoError(t, err)
	require.Equal(t, true, res["ok"])
}
