package dispatch

import (
	"context"
	"encoding/json"
	"strings"

	"cmuxterm/internal/corerr"
)

// V2Request is one JSON-RPC-shaped line on the v2 wire (spec §4.5): a
// dotted method name plus a free-form params object.
type V2Request struct {
	ID     string         `json:"id,omitempty"`
	Method string         `json:"method"`
	Params map[string]any `json:"params,omitempty"`
}

// V2Response is the single-line reply, mirroring the `{ok, result}` /
// `{ok:false, error}` shape: Error is set only when OK is false; Result
// carries the handler's value when OK is true and is omitted for handlers
// that return none (e.g. window.close).
type V2Response struct {
	ID     string   `json:"id,omitempty"`
	OK     bool     `json:"ok"`
	Result any      `json:"result,omitempty"`
	Error  *V2Error `json:"error,omitempty"`
}

// V2Error carries the coreError kind as a stable machine-readable code.
type V2Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Engine) handleV2(ctx context.Context, line string) string {
	var req V2Request
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		return encodeV2("", corerr.New(corerr.ParseError, "malformed v2 request: %s", err))
	}
	if !isAllowedV2(e.AccessMode()) {
		return encodeV2(req.ID, corerr.New(corerr.PermissionDenied, "%s is not permitted by the current access mode", req.Method))
	}
	if browserMethod, ok := strings.CutPrefix(req.Method, "browser."); ok {
		result, err := v2Browser(ctx, e, browserMethod, req.Params)
		if err != nil {
			return encodeV2(req.ID, err)
		}
		resp := V2Response{ID: req.ID, OK: true, Result: result}
		out, _ := json.Marshal(resp)
		return string(out)
	}
	handler, ok := e.v2handlers[req.Method]
	if !ok {
		return encodeV2(req.ID, corerr.New(corerr.UnknownMethod, "unknown method %q", req.Method))
	}
	result, err := handler(ctx, e, req.Params)
	if err != nil {
		return encodeV2(req.ID, err)
	}
	resp := V2Response{ID: req.ID, OK: true, Result: result}
	out, _ := json.Marshal(resp)
	return string(out)
}

func encodeV2(id string, err error) string {
	resp := V2Response{
		ID: id,
		OK: false,
		Error: &V2Error{
			Code:    string(corerr.KindOf(err)),
			Message: errMessage(err),
		},
	}
	if resp.Error.Code == "" {
		resp.Error.Code = string(corerr.IOError)
	}
	out, merr := json.Marshal(resp)
	if merr != nil {
		return `{"ok":false,"error":{"code":"io_error","message":"internal encoding failure"}}`
	}
	return string(out)
}

// paramString reads a string param, defaulting to "" when absent or the
// wrong type; v2 params are a loosely-typed map decoded from JSON.
func paramString(params map[string]any, key string) string {
	if params == nil {
		return ""
	}
	v, _ := params[key].(string)
	return v
}

func paramBool(params map[string]any, key string) (bool, bool) {
	if params == nil {
		return false, false
	}
	v, ok := params[key].(bool)
	return v, ok
}

// paramPosition decodes the {before, after, index} position object shared
// by workspace.reorder and surface.reorder (spec §4.2).
func paramPosition(params map[string]any) (before, after string, index *int) {
	before = paramString(params, "before")
	after = paramString(params, "after")
	if params != nil {
		if n, ok := params["index"].(float64); ok {
			i := int(n)
			index = &i
		}
	}
	return before, after, index
}
