package richtext

import (
	"encoding/json"
	"fmt"
)

// Normalize returns a copy of a rich-text JSON value with the required
// per-node defaults filled in. Fields present on input are never changed or
// removed, so Normalize is idempotent. The input is not modified.
//
// Accepted shapes are a node object, a wrapper object holding "root", or an
// array of nodes. Any other value is returned unchanged.
func Normalize(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Normalize(item)
		}
		return out
	case map[string]any:
		if r, ok := t["root"]; ok {
			if _, typed := t["type"]; !typed {
				out := copyMap(t)
				out["root"] = Normalize(r)
				return out
			}
		}
		return normalizeNode(t)
	}
	return v
}

// NormalizeJSON is Normalize over encoded JSON.
func NormalizeJSON(data []byte) ([]byte, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("normalize rich text: %w", err)
	}
	return json.Marshal(Normalize(v))
}

func normalizeNode(m map[string]any) map[string]any {
	out := copyMap(m)
	if items, ok := m["children"].([]any); ok {
		children := make([]any, len(items))
		for i, c := range items {
			children[i] = Normalize(c)
		}
		out["children"] = children
	}

	typ, _ := m["type"].(string)
	kind := Kind(typ)
	if !kind.Known() {
		return out
	}

	setDefault(out, "version", 1)
	switch kind {
	case KindRoot, KindParagraph, KindHeading, KindQuote:
		blockDefaults(out)
	case KindText:
		setDefault(out, "detail", 0)
		setDefault(out, "format", 0)
		setDefault(out, "mode", "normal")
		setDefault(out, "style", "")
	case KindList:
		blockDefaults(out)
		setDefault(out, "listType", string(ListBullet))
		tag := "ul"
		if lt, _ := out["listType"].(string); ListType(lt) == ListNumber {
			tag = "ol"
		}
		setDefault(out, "tag", tag)
		setDefault(out, "start", 1)
	case KindListItem:
		blockDefaults(out)
		setDefault(out, "value", 1)
	}
	return out
}

func blockDefaults(m map[string]any) {
	setDefault(m, "format", "")
	setDefault(m, "indent", 0)
	setDefault(m, "direction", "ltr")
}

func setDefault(m map[string]any, key string, value any) {
	if _, ok := m[key]; !ok {
		m[key] = value
	}
}

// copyMap returns a deep copy of m so callers never share nested state.
func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m)+4)
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = copyValue(item)
		}
		return out
	}
	return v
}
