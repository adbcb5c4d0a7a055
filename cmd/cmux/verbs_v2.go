package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// isV2Verb reports whether verb names a dotted v2 method namespace rather
// than a v1 line-protocol verb (spec §4.5: system./window./workspace./
// pane./surface./browser.).
func isV2Verb(verb string) bool {
	return strings.Contains(verb, ".")
}

// v2Line encodes a single v2 JSON-RPC request line.
func v2Line(method string, params map[string]any) string {
	req := map[string]any{"id": "cli", "method": method}
	if len(params) > 0 {
		req["params"] = params
	}
	out, err := json.Marshal(req)
	if err != nil {
		return `{"method":"` + method + `"}`
	}
	return string(out)
}

// runV2 builds a v2 request from `--key=value` args, issues it, and either
// pretty-prints a summary or emits canonical (id-format-rewritten) JSON
// (spec §4.9 steps 3-4).
func runV2(opts globalOpts, method string, args []string) int {
	params, err := parseV2Params(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	raw, err := sendLine(opts, v2Line(method, params))
	if err != nil {
		fmt.Fprintln(os.Stderr, connectErrorMessage(opts, err))
		return 1
	}

	var resp struct {
		OK     bool `json:"ok"`
		Result any  `json:"result"`
		Error  *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		fmt.Fprintln(os.Stderr, "malformed server response:", raw)
		return 1
	}

	if !resp.OK {
		if resp.Error != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", resp.Error.Code, resp.Error.Message)
		} else {
			fmt.Fprintln(os.Stderr, "request failed")
		}
		return 1
	}

	rewritten := rewriteIDFormat(resp.Result, opts.idFormat)
	if opts.jsonOutput {
		out, err := json.Marshal(rewritten)
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to encode result:", err)
			return 1
		}
		fmt.Println(string(out))
		return 0
	}
	printV2Summary(method, rewritten)
	return 0
}

// parseV2Params turns `--key=value` / `--flag` CLI args into a v2 params
// object, converting numeric- and boolean-looking values so flags like
// `--index=0` reach the wire as JSON numbers, matching paramPosition's
// expectations in internal/dispatch.
func parseV2Params(args []string) (map[string]any, error) {
	params := map[string]any{}
	for _, arg := range args {
		if !strings.HasPrefix(arg, "--") {
			return nil, fmt.Errorf("unexpected positional argument %q (use --key=value)", arg)
		}
		kv := strings.TrimPrefix(arg, "--")
		key, value, hasValue := strings.Cut(kv, "=")
		if key == "" {
			return nil, fmt.Errorf("invalid flag %q", arg)
		}
		if !hasValue {
			params[key] = true
			continue
		}
		params[key] = coerceParamValue(value)
	}
	return params, nil
}

func coerceParamValue(value string) any {
	if value == "true" {
		return true
	}
	if value == "false" {
		return false
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return value
}

// printV2Summary renders a compact, human-readable line for the common
// result shapes (a single object with ref/title, or a list of them); pretty
// output is the default per spec §4.9/§6.
func printV2Summary(method string, result any) {
	switch v := result.(type) {
	case map[string]any:
		fmt.Println(summarizeObject(v))
	case []any:
		if len(v) == 0 {
			fmt.Println("(empty)")
			return
		}
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				fmt.Println(summarizeObject(obj))
				continue
			}
			fmt.Printf("%v\n", item)
		}
	case nil:
		fmt.Println("OK")
	default:
		fmt.Printf("%v\n", v)
	}
}

func summarizeObject(obj map[string]any) string {
	var parts []string
	for _, key := range []string{"window_ref", "workspace_ref", "pane_ref", "surface_ref", "ref", "id", "title", "url"} {
		if v, ok := obj[key]; ok {
			parts = append(parts, fmt.Sprintf("%s=%v", key, v))
		}
	}
	if raw, ok := obj["created_at"].(string); ok {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			parts = append(parts, humanize.Time(ts))
		}
	}
	if len(parts) == 0 {
		out, err := json.Marshal(obj)
		if err != nil {
			return fmt.Sprintf("%v", obj)
		}
		return string(out)
	}
	return strings.Join(parts, " ")
}
