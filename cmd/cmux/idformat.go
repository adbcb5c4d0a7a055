package main

import (
	"strings"

	"github.com/samber/lo"
)

// rewriteIDFormat recursively walks a decoded v2 result and drops either the
// UUID field or the ref field of every id/ref pair, per spec §4.9 step 4.
// Snapshot fields follow the "<entity>_id" / "<entity>_ref" naming pattern
// (internal/model.WindowSnapshot etc.), so pairing is derived from the key
// name rather than a fixed field list.
func rewriteIDFormat(value any, format string) any {
	if format == "both" {
		return value
	}
	switch v := value.(type) {
	case map[string]any:
		return rewriteObject(v, format)
	case []any:
		return lo.Map(v, func(item any, _ int) any { return rewriteIDFormat(item, format) })
	default:
		return value
	}
}

func rewriteObject(obj map[string]any, format string) map[string]any {
	drop := lo.Filter(lo.Keys(obj), func(key string, _ int) bool {
		return shouldDropKey(obj, key, format)
	})
	dropSet := lo.SliceToMap(drop, func(k string) (string, struct{}) { return k, struct{}{} })

	out := make(map[string]any, len(obj))
	for key, val := range obj {
		if _, dropped := dropSet[key]; dropped {
			continue
		}
		out[key] = rewriteIDFormat(val, format)
	}
	return out
}

// shouldDropKey reports whether key is the "losing" half of an id/ref pair
// under format: refs mode drops the UUID ("*_id"/"id") field when a "*_ref"
// sibling exists; uuids mode drops the ref field when a UUID sibling exists.
func shouldDropKey(obj map[string]any, key, format string) bool {
	switch format {
	case "refs":
		prefix, isID := idPrefix(key)
		if !isID {
			return false
		}
		_, hasRef := obj[refKey(prefix)]
		return hasRef
	case "uuids":
		prefix, isRef := refPrefix(key)
		if !isRef {
			return false
		}
		_, hasID := obj[idKey(prefix)]
		return hasID
	default:
		return false
	}
}

func idPrefix(key string) (prefix string, ok bool) {
	if key == "id" {
		return "", true
	}
	if strings.HasSuffix(key, "_id") {
		return strings.TrimSuffix(key, "_id"), true
	}
	return "", false
}

func refPrefix(key string) (prefix string, ok bool) {
	if key == "ref" {
		return "", true
	}
	if strings.HasSuffix(key, "_ref") {
		return strings.TrimSuffix(key, "_ref"), true
	}
	return "", false
}

func refKey(prefix string) string {
	if prefix == "" {
		return "ref"
	}
	return prefix + "_ref"
}

func idKey(prefix string) string {
	if prefix == "" {
		return "id"
	}
	return prefix + "_id"
}
