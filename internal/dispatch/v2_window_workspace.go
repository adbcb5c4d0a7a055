package dispatch

import (
	"context"

	"cmuxterm/internal/topology"
)

func v2SystemCapabilities(ctx context.Context, e *Engine, params map[string]any) (any, error) {
	return e.topo.SystemCapabilities(), nil
}

func v2SystemIdentify(ctx context.Context, e *Engine, params map[string]any) (any, error) {
	return e.topo.SystemIdentify(paramString(params, "caller")), nil
}

func v2WindowList(ctx context.Context, e *Engine, params map[string]any) (any, error) {
	return e.topo.WindowList(), nil
}

func v2WindowCurrent(ctx context.Context, e *Engine, params map[string]any) (any, error) {
	return e.topo.WindowCurrent()
}

func v2WindowNew(ctx context.Context, e *Engine, params map[string]any) (any, error) {
	return e.topo.WindowNew(), nil
}

func v2WindowFocus(ctx context.Context, e *Engine, params map[string]any) (any, error) {
	return e.topo.WindowFocus(paramString(params, "window"))
}

func v2WindowClose(ctx context.Context, e *Engine, params map[string]any) (any, error) {
	force, _ := paramBool(params, "force")
	return nil, e.topo.WindowClose(paramString(params, "window"), force)
}

func v2WorkspaceList(ctx context.Context, e *Engine, params map[string]any) (any, error) {
	return e.topo.WorkspaceList(paramString(params, "window"))
}

func v2WorkspaceCurrent(ctx context.Context, e *Engine, params map[string]any) (any, error) {
	return e.topo.WorkspaceCurrent()
}

func v2WorkspaceNew(ctx context.Context, e *Engine, params map[string]any) (any, error) {
	return e.topo.WorkspaceNew(paramString(params, "window"))
}

func v2WorkspaceClose(ctx context.Context, e *Engine, params map[string]any) (any, error) {
	return nil, e.topo.WorkspaceClose(paramString(params, "workspace"))
}

func v2WorkspaceSelect(ctx context.Context, e *Engine, params map[string]any) (any, error) {
	return e.topo.WorkspaceSelect(paramString(params, "workspace"))
}

func v2WorkspaceReorder(ctx context.Context, e *Engine, params map[string]any) (any, error) {
	handle := paramString(params, "workspace")
	windowHandle := paramString(params, "window")
	pos, err := e.resolveWorkspacePosition(params, windowHandle)
	if err != nil {
		return nil, err
	}
	return nil, e.topo.WorkspaceReorder(handle, pos)
}

// resolveWorkspacePosition decodes a {before, after, index} position object
// against windowHandle's (or the key window's) workspace listing, since
// workspace.reorder's before/after handles are siblings within that window.
func (e *Engine) resolveWorkspacePosition(params map[string]any, windowHandle string) (topology.Position, error) {
	before, after, index := paramPosition(params)
	if index != nil {
		return topology.Position{Index: index}, nil
	}
	if before == "" && after == "" {
		return topology.Position{}, nil
	}
	siblings, err := e.topo.WorkspaceList(windowHandle)
	if err != nil {
		return topology.Position{}, err
	}
	var pos topology.Position
	for _, ws := range siblings {
		if before != "" && matchesHandle(ws.Ref, ws.ID, before) {
			pos.BeforeID = ws.ID
		}
		if after != "" && matchesHandle(ws.Ref, ws.ID, after) {
			pos.AfterID = ws.ID
		}
	}
	return pos, nil
}
