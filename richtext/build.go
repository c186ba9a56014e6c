package richtext

// Builders for authoring trees in Go. They produce partial JSON-shaped
// literals carrying only the essential fields; pass the result through
// Normalize before persisting.

// Value is a JSON-shaped node literal.
type Value = map[string]any

// NewRoot wraps block children in a {"root": …} document.
func NewRoot(children ...Value) Value {
	return Value{"root": Value{"type": string(KindRoot), "children": list(children)}}
}

// P builds a paragraph.
func P(children ...Value) Value {
	return Value{"type": string(KindParagraph), "children": list(children)}
}

// H builds a heading with tag "h1".."h6".
func H(tag string, children ...Value) Value {
	return Value{"type": string(KindHeading), "tag": tag, "children": list(children)}
}

// Q builds a block quote.
func Q(children ...Value) Value {
	return Value{"type": string(KindQuote), "children": list(children)}
}

// T builds a text leaf with optional formatting flags.
func T(text string, flags ...Format) Value {
	v := Value{"type": string(KindText), "text": text}
	var f Format
	for _, fl := range flags {
		f |= fl
	}
	if f != 0 {
		v["format"] = int(f)
	}
	return v
}

// UL builds a bullet list of items.
func UL(items ...Value) Value {
	return Value{"type": string(KindList), "listType": string(ListBullet), "children": numbered(items)}
}

// OL builds a numbered list of items.
func OL(items ...Value) Value {
	return Value{"type": string(KindList), "listType": string(ListNumber), "tag": "ol", "children": numbered(items)}
}

// LI builds a list item.
func LI(children ...Value) Value {
	return Value{"type": string(KindListItem), "children": list(children)}
}

// A builds a link around children.
func A(url string, newTab bool, children ...Value) Value {
	return Value{
		"type":     string(KindLink),
		"fields":   Value{"url": url, "newTab": newTab, "linkType": "custom"},
		"children": list(children),
	}
}

// BR builds a line break.
func BR() Value {
	return Value{"type": string(KindLineBreak)}
}

// Image builds an upload node referencing a media document by ID or object.
func Image(value any, caption string) Value {
	v := Value{"type": string(KindUpload), "relationTo": RelationMedia, "value": value}
	if caption != "" {
		v["fields"] = Value{"caption": caption}
	}
	return v
}

// VideoEmbed builds an upload node referencing a video-embed record.
func VideoEmbed(value any) Value {
	return Value{"type": string(KindUpload), "relationTo": RelationVideos, "value": value}
}

func list(children []Value) []any {
	out := make([]any, len(children))
	for i, c := range children {
		out[i] = c
	}
	return out
}

// numbered sets each list item's ordinal when it was not given.
func numbered(items []Value) []any {
	out := make([]any, len(items))
	for i, it := range items {
		if it["type"] == string(KindListItem) {
			if _, ok := it["value"]; !ok {
				it["value"] = i + 1
			}
		}
		out[i] = it
	}
	return out
}
