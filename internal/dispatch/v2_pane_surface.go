package dispatch

import (
	"context"

	"cmuxterm/internal/model"
	"cmuxterm/internal/topology"
)

func v2PaneList(ctx context.Context, e *Engine, params map[string]any) (any, error) {
	return e.topo.PaneList(paramString(params, "workspace"))
}

func v2PaneFocus(ctx context.Context, e *Engine, params map[string]any) (any, error) {
	return e.topo.PaneFocus(paramString(params, "pane"))
}

func v2PaneSplit(ctx context.Context, e *Engine, params map[string]any) (any, error) {
	orientation, insertFirst, err := parseDirection(paramString(params, "direction"))
	if err != nil {
		return nil, err
	}
	return e.topo.PaneSplit(paramString(params, "pane"), orientation, insertFirst)
}

func v2SurfaceList(ctx context.Context, e *Engine, params map[string]any) (any, error) {
	return e.topo.SurfaceList(paramString(params, "workspace"))
}

func v2SurfaceNew(ctx context.Context, e *Engine, params map[string]any) (any, error) {
	kind := model.Kind(paramString(params, "kind"))
	if kind == "" {
		kind = model.KindTerminal
	}
	return e.topo.SurfaceNew(kind, paramString(params, "pane"), paramString(params, "url"))
}

func v2SurfaceClose(ctx context.Context, e *Engine, params map[string]any) (any, error) {
	return nil, e.topo.SurfaceClose(paramString(params, "surface"))
}

func v2SurfaceFocus(ctx context.Context, e *Engine, params map[string]any) (any, error) {
	return e.topo.SurfaceFocus(paramString(params, "surface"))
}

func v2SurfaceReorder(ctx context.Context, e *Engine, params map[string]any) (any, error) {
	handle := paramString(params, "surface")
	pos, err := e.resolveSurfacePosition(handle, params)
	if err != nil {
		return nil, err
	}
	return nil, e.topo.SurfaceReorder(handle, pos)
}

// resolveSurfacePosition decodes a {before, after, index} position object
// against handle's owning pane's surface listing (surface.reorder moves
// within the pane, per spec §4.2's round-trip law).
func (e *Engine) resolveSurfacePosition(handle string, params map[string]any) (topology.Position, error) {
	before, after, index := paramPosition(params)
	if index != nil {
		return topology.Position{Index: index}, nil
	}
	if before == "" && after == "" {
		return topology.Position{}, nil
	}
	_, sfc, err := e.findSurface(handle)
	if err != nil {
		return topology.Position{}, err
	}
	siblings, err := e.topo.SurfaceList("")
	if err != nil {
		return topology.Position{}, err
	}
	var pos topology.Position
	for _, s := range siblings {
		if s.PaneID != sfc.PaneID {
			continue
		}
		if before != "" && matchesHandle(s.Ref, s.ID, before) {
			pos.BeforeID = s.ID
		}
		if after != "" && matchesHandle(s.Ref, s.ID, after) {
			pos.AfterID = s.ID
		}
	}
	return pos, nil
}

func v2SurfaceMove(ctx context.Context, e *Engine, params map[string]any) (any, error) {
	handle := paramString(params, "surface")
	opts := topology.MoveOptions{
		Pane:      paramString(params, "pane"),
		Workspace: paramString(params, "workspace"),
		Window:    paramString(params, "window"),
	}
	if focus, ok := paramBool(params, "focus"); ok {
		opts.Focus = &focus
	}
	before, after, index := paramPosition(params)
	if index != nil {
		opts.Position = topology.Position{Index: index}
	} else if before != "" || after != "" {
		if _, sfc, err := e.findSurface(handle); err == nil {
			targetWorkspace := opts.Workspace
			if targetWorkspace == "" {
				if ws, werr := e.resolveWorkspaceByHandle(""); werr == nil {
					targetWorkspace = ws.Ref
				}
			}
			siblings, serr := e.topo.SurfaceList(targetWorkspace)
			if serr == nil {
				targetPane := opts.Pane
				for _, s := range siblings {
					if targetPane != "" && s.PaneRef != targetPane {
						continue
					}
					if targetPane == "" && s.PaneID != sfc.PaneID {
						continue
					}
					if before != "" && matchesHandle(s.Ref, s.ID, before) {
						opts.Position.BeforeID = s.ID
					}
					if after != "" && matchesHandle(s.Ref, s.ID, after) {
						opts.Position.AfterID = s.ID
					}
				}
			}
		}
	}
	return e.topo.SurfaceMove(handle, opts)
}

func v2SurfaceTriggerFlash(ctx context.Context, e *Engine, params map[string]any) (any, error) {
	id, err := e.topo.SurfaceTriggerFlash(paramString(params, "workspace"), paramString(params, "surface"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"surface_id": id}, nil
}

func v2Browser(ctx context.Context, e *Engine, method string, params map[string]any) (any, error) {
	handle := paramString(params, "surface")
	return e.browser.Call(ctx, method, handle, params)
}
