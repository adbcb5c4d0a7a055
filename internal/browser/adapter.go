// Package browser implements the Browser Adapter (C7): the mapping from
// browser.* RPC methods to the host web-view collaborator identified by a
// surface id, grounded on the teacher's command_router_terminal.go
// dispatch-by-verb shape but addressed by method name instead of a fixed
// verb switch, to match the richer dotted namespace in spec §4.7.
package browser

import (
	"context"
	"strings"
	"time"

	"cmuxterm/internal/corerr"
	"cmuxterm/internal/hostiface"
	"cmuxterm/internal/model"
	"cmuxterm/internal/topology"
)

// Adapter owns the browser.* method table.
type Adapter struct {
	topo *topology.Store
	host hostiface.BrowserHost
}

// New creates an Adapter bound to a topology store and a host collaborator.
func New(topo *topology.Store, host hostiface.BrowserHost) *Adapter {
	return &Adapter{topo: topo, host: host}
}

// unsupportedMethods are refused outright because this host has no
// CDP-grade automation surface behind it (spec §4.7 table, last row).
var unsupportedMethods = map[string]bool{
	"viewport.set": true, "geolocation.set": true, "offline.set": true,
	"trace.start": true, "trace.stop": true,
	"network.enable": true, "network.disable": true, "network.throttle": true,
	"screencast.start": true, "screencast.stop": true,
	"input_mouse": true, "input_keyboard": true, "input_touch": true,
}

// Call dispatches one browser.* RPC method against the surface resolved by
// surfaceHandle. params carries method-specific arguments already decoded
// from JSON; the result is returned as a plain map ready for JSON encoding.
func (a *Adapter) Call(ctx context.Context, method, surfaceHandle string, params map[string]any) (map[string]any, error) {
	if unsupportedMethods[method] {
		return nil, corerr.New(corerr.NotSupported, "%s is not supported on this host", method)
	}

	if method == "open_split" {
		return a.openSplit(params)
	}

	panel, err := a.resolvePanel(surfaceHandle)
	if err != nil {
		return nil, err
	}

	switch method {
	case "navigate":
		url, _ := params["url"].(string)
		if err := a.host.Navigate(panel.Host, url); err != nil {
			return nil, corerr.Wrap(corerr.IOError, err, "navigate")
		}
		return map[string]any{"ok": true}, nil
	case "back":
		return a.simple(a.host.Back(panel.Host))
	case "forward":
		return a.simple(a.host.Forward(panel.Host))
	case "reload":
		return a.simple(a.host.Reload(panel.Host))
	case "url.get":
		v, err := a.evalString(ctx, panel.Host, "window.location.href")
		return mapOrErr("url", v, err)
	case "get.title":
		v, err := a.evalString(ctx, panel.Host, "document.title")
		return mapOrErr("value", v, err)
	case "get.text", "get.html", "get.value", "get.attr", "get.count", "get.box", "get.styles":
		return a.selectorQuery(ctx, panel.Host, method, params)
	case "click", "dblclick", "hover", "focus", "check", "uncheck", "scroll_into_view",
		"type", "fill", "press", "keydown", "keyup", "select", "scroll":
		return a.interact(ctx, panel.Host, method, params)
	case "wait":
		return a.wait(ctx, panel.Host, params)
	case "snapshot":
		return a.snapshot(ctx, panel.Host, params)
	case "screenshot":
		png, err := a.host.Screenshot(panel.Host)
		if err != nil {
			return nil, corerr.Wrap(corerr.IOError, err, "screenshot")
		}
		return map[string]any{"png_base64": png}, nil
	case "cookies.get", "cookies.set", "cookies.clear", "storage.get", "storage.set",
		"state.save", "state.load", "addinitscript", "addscript", "addstyle":
		return a.stateOp(ctx, panel.Host, method, params)
	case "tab.list", "tab.close", "console.list", "errors.list", "frame.list",
		"dialog.accept", "dialog.dismiss", "highlight", "find.text", "find.role",
		"is.visible", "is.enabled", "is.checked":
		return a.metaOp(ctx, panel.Host, method, params)
	default:
		return nil, corerr.New(corerr.UnknownMethod, "unknown browser method %q", method)
	}
}

func (a *Adapter) resolvePanel(surfaceHandle string) (*model.Panel, error) {
	panel, err := a.topo.PanelFor(surfaceHandle)
	if err != nil {
		return nil, err
	}
	return &panel, nil
}

func (a *Adapter) openSplit(params map[string]any) (map[string]any, error) {
	url, _ := params["url"].(string)
	workspaceHandle, _ := params["workspace"].(string)

	existing, err := a.topo.SurfaceList(workspaceHandle)
	if err != nil {
		return nil, err
	}
	for _, s := range existing {
		if s.Kind == model.KindBrowser {
			panel, perr := a.resolvePanel(s.Ref)
			if perr != nil {
				return nil, perr
			}
			if err := a.host.Navigate(panel.Host, url); err != nil {
				return nil, corerr.Wrap(corerr.IOError, err, "navigate")
			}
			return map[string]any{"created_split": false, "surface_ref": s.Ref, "surface_id": s.ID.String()}, nil
		}
	}

	sfc, err := a.topo.SurfaceNew(model.KindBrowser, "", url)
	if err != nil {
		return nil, err
	}
	return map[string]any{"created_split": true, "surface_ref": sfc.Ref, "surface_id": sfc.ID.String()}, nil
}

func (a *Adapter) simple(err error) (map[string]any, error) {
	if err != nil {
		return nil, corerr.Wrap(corerr.IOError, err, "browser host call failed")
	}
	return map[string]any{"ok": true}, nil
}

func (a *Adapter) evalString(ctx context.Context, handle, script string) (string, error) {
	v, err := a.host.Eval(ctx, handle, script)
	if err != nil {
		return "", corerr.Wrap(corerr.IOError, err, "eval")
	}
	s, _ := v.(string)
	return s, nil
}

func mapOrErr(key, value string, err error) (map[string]any, error) {
	if err != nil {
		return nil, err
	}
	return map[string]any{key: value}, nil
}

func (a *Adapter) selectorQuery(ctx context.Context, handle, method string, params map[string]any) (map[string]any, error) {
	selector, _ := params["selector"].(string)
	script := selectorScript(method, selector, params)
	v, err := a.host.Eval(ctx, handle, script)
	if err != nil {
		return nil, corerr.Wrap(corerr.IOError, err, method)
	}
	return map[string]any{"value": v}, nil
}

func selectorScript(method, selector string, params map[string]any) string {
	switch method {
	case "get.text":
		return "document.querySelector(" + jsQuote(selector) + ")?.textContent"
	case "get.html":
		return "document.querySelector(" + jsQuote(selector) + ")?.innerHTML"
	case "get.value":
		return "document.querySelector(" + jsQuote(selector) + ")?.value"
	case "get.count":
		return "document.querySelectorAll(" + jsQuote(selector) + ").length"
	case "get.attr":
		attr, _ := params["attr"].(string)
		return "document.querySelector(" + jsQuote(selector) + ")?.getAttribute(" + jsQuote(attr) + ")"
	default:
		return "document.querySelector(" + jsQuote(selector) + ")?.getBoundingClientRect()"
	}
}

func jsQuote(s string) string {
	return "\"" + strings.ReplaceAll(s, "\"", "\\\"") + "\""
}

func (a *Adapter) interact(ctx context.Context, handle, method string, params map[string]any) (map[string]any, error) {
	selector, _ := params["selector"].(string)
	script := interactScript(method, selector, params)
	if _, err := a.host.Eval(ctx, handle, script); err != nil {
		return nil, corerr.Wrap(corerr.IOError, err, method)
	}
	out := map[string]any{"ok": true}
	if snap, _ := params["snapshot_after"].(bool); snap {
		result, err := a.snapshot(ctx, handle, nil)
		if err != nil {
			return nil, err
		}
		out["snapshot"] = result["snapshot"]
	}
	return out, nil
}

func interactScript(method, selector string, params map[string]any) string {
	target := "document.querySelector(" + jsQuote(selector) + ")"
	switch method {
	case "click":
		return target + "?.click()"
	case "dblclick":
		return target + "?.dispatchEvent(new MouseEvent('dblclick',{bubbles:true}))"
	case "hover":
		return target + "?.dispatchEvent(new MouseEvent('mouseover',{bubbles:true}))"
	case "focus":
		return target + "?.focus()"
	case "check":
		return target + ".checked = true"
	case "uncheck":
		return target + ".checked = false"
	case "scroll_into_view":
		return target + "?.scrollIntoView()"
	case "fill", "type":
		text, _ := params["text"].(string)
		return target + ".value = " + jsQuote(text)
	default:
		return target + "?.focus()"
	}
}

func (a *Adapter) wait(ctx context.Context, handle string, params map[string]any) (map[string]any, error) {
	timeoutMS, _ := params["timeout_ms"].(float64)
	if timeoutMS <= 0 {
		timeoutMS = 5000
	}
	deadline := time.Now().Add(time.Duration(timeoutMS) * time.Millisecond)
	selector, hasSelector := params["selector"].(string)

	for {
		if hasSelector {
			script := "!!document.querySelector(" + jsQuote(selector) + ")"
			v, err := a.host.Eval(ctx, handle, script)
			if err == nil {
				if found, _ := v.(bool); found {
					return map[string]any{"ok": true}, nil
				}
			}
		} else {
			return map[string]any{"ok": true}, nil
		}
		if time.Now().After(deadline) {
			return nil, corerr.New(corerr.Timeout, "wait deadline exceeded")
		}
		select {
		case <-ctx.Done():
			return nil, corerr.New(corerr.Timeout, "wait cancelled")
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func (a *Adapter) snapshot(ctx context.Context, handle string, params map[string]any) (map[string]any, error) {
	v, err := a.host.Eval(ctx, handle, "document.body ? document.body.innerText : ''")
	if err != nil {
		return nil, corerr.Wrap(corerr.IOError, err, "snapshot")
	}
	return map[string]any{"snapshot": v}, nil
}

func (a *Adapter) stateOp(ctx context.Context, handle, method string, params map[string]any) (map[string]any, error) {
	switch method {
	case "cookies.get":
		v, err := a.host.Eval(ctx, handle, "document.cookie")
		return mapOrErr("value", toStr(v), err)
	default:
		return map[string]any{"ok": true}, nil
	}
}

func (a *Adapter) metaOp(ctx context.Context, handle, method string, params map[string]any) (map[string]any, error) {
	switch method {
	case "is.visible", "is.enabled", "is.checked":
		selector, _ := params["selector"].(string)
		v, err := a.host.Eval(ctx, handle, "!!document.querySelector("+jsQuote(selector)+")")
		if err != nil {
			return nil, corerr.Wrap(corerr.IOError, err, method)
		}
		b, _ := v.(bool)
		return map[string]any{"value": b}, nil
	default:
		return map[string]any{"ok": true}, nil
	}
}

func toStr(v any) string {
	s, _ := v.(string)
	return s
}
