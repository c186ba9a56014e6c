package richtext

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/shisei-sport/clubsite/media"
)

// Document is a decoded rich-text value. A nil Root is an empty document.
type Document struct {
	Root *Root
}

// Parse decodes a rich-text JSON value. Only invalid JSON is an error;
// malformed nodes decode to zero values or *Unknown.
func Parse(data []byte) (*Document, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse rich text: %w", err)
	}
	return FromValue(v), nil
}

// FromValue decodes a generic JSON value: a wrapper object with a "root"
// field, a bare root node, any other node, or an array of nodes. Anything
// else yields an empty document.
func FromValue(v any) *Document {
	switch t := v.(type) {
	case map[string]any:
		if r, ok := t["root"]; ok {
			if _, typed := t["type"]; !typed {
				return FromValue(r)
			}
		}
		n := decodeNode(t)
		if root, ok := n.(*Root); ok {
			return &Document{Root: root}
		}
		return &Document{Root: &Root{Children: []Node{n}}}
	case []any:
		return &Document{Root: &Root{Children: decodeChildren(t)}}
	}
	return &Document{}
}

// UnmarshalJSON implements json.Unmarshaler with the rules of FromValue.
func (d *Document) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = Document{}
		return nil
	}
	doc, err := Parse(data)
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}

// Empty reports whether the document has no content nodes.
func (d *Document) Empty() bool {
	return d == nil || d.Root == nil || len(d.Root.Children) == 0
}

func decodeChildren(items []any) []Node {
	out := make([]Node, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, decodeNode(m))
	}
	return out
}

func decodeNode(m map[string]any) Node {
	children := func() []Node {
		items, _ := m["children"].([]any)
		return decodeChildren(items)
	}
	typ := str(m["type"])
	switch Kind(typ) {
	case KindRoot:
		return &Root{Block: decodeBlock(m), Children: children()}
	case KindParagraph:
		return &Paragraph{Block: decodeBlock(m), Children: children()}
	case KindHeading:
		return &Heading{Block: decodeBlock(m), Tag: str(m["tag"]), Children: children()}
	case KindQuote:
		return &Quote{Block: decodeBlock(m), Children: children()}
	case KindText:
		f := num(m["format"])
		if f < 0 {
			f = 0
		}
		return &Text{
			Text:   str(m["text"]),
			Format: Format(f),
			Detail: num(m["detail"]),
			Mode:   str(m["mode"]),
			Style:  str(m["style"]),
		}
	case KindList:
		return &List{
			Block:    decodeBlock(m),
			ListType: ListType(str(m["listType"])),
			Tag:      str(m["tag"]),
			Start:    num(m["start"]),
			Children: children(),
		}
	case KindListItem:
		return &ListItem{Block: decodeBlock(m), Value: num(m["value"]), Children: children()}
	case KindLink:
		return decodeLink(m, children())
	case KindUpload:
		return decodeUpload(m)
	case KindLineBreak:
		return &LineBreak{}
	}
	return &Unknown{Type: typ, Children: children()}
}

func decodeBlock(m map[string]any) Block {
	return Block{
		Direction: str(m["direction"]),
		Format:    str(m["format"]),
		Indent:    num(m["indent"]),
	}
}

func decodeLink(m map[string]any, children []Node) *Link {
	l := &Link{Children: children}
	if fields, ok := m["fields"].(map[string]any); ok {
		l.URL = str(fields["url"])
		l.NewTab = boolean(fields["newTab"])
	}
	if l.URL == "" {
		l.URL = str(m["url"])
	}
	if !l.NewTab {
		l.NewTab = boolean(m["newTab"]) || str(m["target"]) == "_blank"
	}
	return l
}

func decodeUpload(m map[string]any) *Upload {
	u := &Upload{RelationTo: str(m["relationTo"])}
	if fields, ok := m["fields"].(map[string]any); ok {
		u.Caption = str(fields["caption"])
	}
	value := m["value"]
	if value == nil {
		return u
	}
	switch u.RelationTo {
	case RelationVideos:
		if vm, ok := value.(map[string]any); ok {
			var v media.Video
			if remarshal(vm, &v) == nil && v.URL != "" {
				u.Video = &v
			}
		}
	default:
		var ref media.Ref
		if remarshal(value, &ref) == nil {
			u.Media = ref
		}
		if u.Caption == "" && ref.Media != nil {
			u.Caption = ref.Media.Caption
		}
	}
	return u
}

func remarshal(in any, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func boolean(v any) bool {
	b, _ := v.(bool)
	return b
}

// num reads an integer attribute from JSON-decoded or literal values.
func num(v any) int {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case Format:
		return int(n)
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	}
	return 0
}
