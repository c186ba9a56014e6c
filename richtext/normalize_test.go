package richtext

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() Value {
	return NewRoot(
		H("h2", T("Trainingstijden")),
		P(T("Judo voor "), T("jeugd", FormatBold), A("https://example.com", true, T("lees meer"))),
		UL(LI(T("maandag")), LI(T("woensdag"))),
		Value{"type": "table", "children": []any{P(T("cel"))}},
		Image("64f0c1", "Dojo"),
	)
}

func decodeJSON(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []any{
		sampleTree(),
		decodeJSON(t, `{"root":{"type":"root","children":[{"type":"paragraph","children":[{"type":"text","text":"x"}]}]}}`),
		decodeJSON(t, `[{"type":"text","text":"a"},{"type":"list","listType":"number","children":[{"type":"listitem"}]}]`),
		decodeJSON(t, `{"type":"heading","tag":"h3","format":"center"}`),
		"plain string",
		nil,
		42.0,
	}
	for i, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		assert.True(t, reflect.DeepEqual(once, twice), "input %d not idempotent", i)
	}
}

func TestNormalizeNonDestructive(t *testing.T) {
	in := decodeJSON(t, `{"type":"paragraph","format":"center","indent":2,"direction":"rtl","version":3,"custom":{"a":1},"children":[{"type":"text","text":"x","format":11,"style":"color: red","extra":true}]}`)
	out := Normalize(in).(map[string]any)

	assert.Equal(t, "center", out["format"])
	assert.Equal(t, 2.0, out["indent"])
	assert.Equal(t, "rtl", out["direction"])
	assert.Equal(t, 3.0, out["version"])
	assert.Equal(t, map[string]any{"a": 1.0}, out["custom"])

	text := out["children"].([]any)[0].(map[string]any)
	assert.Equal(t, 11.0, text["format"])
	assert.Equal(t, "color: red", text["style"])
	assert.Equal(t, true, text["extra"])
	assert.Equal(t, "normal", text["mode"])
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := sampleTree()
	before, err := json.Marshal(in)
	require.NoError(t, err)

	_ = Normalize(in)

	after, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestNormalizeTextDefaults(t *testing.T) {
	out := Normalize(sampleTree())
	var texts []map[string]any
	var walk func(v any)
	walk = func(v any) {
		switch t := v.(type) {
		case map[string]any:
			if t["type"] == "text" {
				texts = append(texts, t)
			}
			for _, c := range t {
				walk(c)
			}
		case []any:
			for _, c := range t {
				walk(c)
			}
		}
	}
	walk(out)
	require.Len(t, texts, 7)
	for _, txt := range texts {
		for _, key := range []string{"detail", "format", "mode", "style", "version"} {
			assert.Contains(t, txt, key)
		}
	}
}

func TestNormalizeBlockAndListDefaults(t *testing.T) {
	out := Normalize(sampleTree()).(map[string]any)
	root := out["root"].(map[string]any)
	assert.Equal(t, "", root["format"])
	assert.Equal(t, 0, root["indent"])
	assert.Equal(t, "ltr", root["direction"])
	assert.Equal(t, 1, root["version"])

	children := root["children"].([]any)
	list := children[2].(map[string]any)
	assert.Equal(t, "bullet", list["listType"])
	assert.Equal(t, "ul", list["tag"])
	assert.Equal(t, 1, list["start"])
	assert.Equal(t, "ltr", list["direction"])

	item := list["children"].([]any)[1].(map[string]any)
	assert.Equal(t, 2, item["value"])
	assert.Equal(t, "ltr", item["direction"])
}

func TestNormalizeListDefaults(t *testing.T) {
	tests := []struct {
		in      string
		wantTag string
		wantVal int
	}{
		{`{"type":"list","children":[{"type":"listitem"}]}`, "ul", 1},
		{`{"type":"list","listType":"number","children":[{"type":"listitem"}]}`, "ol", 1},
	}
	for _, tt := range tests {
		out := Normalize(decodeJSON(t, tt.in)).(map[string]any)
		if out["tag"] != tt.wantTag {
			t.Errorf("Normalize(%s) tag = %v, want %q", tt.in, out["tag"], tt.wantTag)
		}
		item := out["children"].([]any)[0].(map[string]any)
		if item["value"] != tt.wantVal {
			t.Errorf("Normalize(%s) listitem value = %v, want %d", tt.in, item["value"], tt.wantVal)
		}
	}
}

func TestNormalizeUnknownNodeUntouched(t *testing.T) {
	in := decodeJSON(t, `{"type":"table","children":[{"type":"text","text":"cel"}]}`)
	out := Normalize(in).(map[string]any)
	assert.NotContains(t, out, "version")
	assert.NotContains(t, out, "direction")
	cell := out["children"].([]any)[0].(map[string]any)
	assert.Equal(t, "normal", cell["mode"])
}

func TestNormalizeWrapperPreserved(t *testing.T) {
	in := decodeJSON(t, `{"root":{"type":"root","children":[]},"meta":"kept"}`)
	out := Normalize(in).(map[string]any)
	assert.Equal(t, "kept", out["meta"])
	assert.NotContains(t, out, "version")
	root := out["root"].(map[string]any)
	assert.Equal(t, "ltr", root["direction"])
}

func TestNormalizePassThrough(t *testing.T) {
	for _, in := range []any{"x", 3.0, true, nil} {
		if got := Normalize(in); got != in {
			t.Errorf("Normalize(%v) = %v, want unchanged", in, got)
		}
	}
}

func TestNormalizeArrayOrder(t *testing.T) {
	out := Normalize(decodeJSON(t, `[{"type":"text","text":"a"},{"type":"text","text":"b"},7]`)).([]any)
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].(map[string]any)["text"])
	assert.Equal(t, "b", out[1].(map[string]any)["text"])
	assert.Equal(t, 7.0, out[2])
}

func TestNormalizeJSON(t *testing.T) {
	out, err := NormalizeJSON([]byte(`{"root":{"type":"root","children":[{"type":"paragraph","children":[{"type":"text","text":"hoi"}]}]}}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"root":{"type":"root","format":"","indent":0,"direction":"ltr","version":1,"children":[
		{"type":"paragraph","format":"","indent":0,"direction":"ltr","version":1,"children":[
			{"type":"text","text":"hoi","detail":0,"format":0,"mode":"normal","style":"","version":1}]}]}}`, string(out))

	_, err = NormalizeJSON([]byte(`{`))
	assert.Error(t, err)
}
