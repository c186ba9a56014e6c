package richtext

import (
	"strings"
	"unicode"
)

// Ellipsis is appended to truncated excerpts.
const Ellipsis = "…"

// PlainText returns all text of doc in document order with whitespace
// collapsed. Block-level siblings are separated by a single space.
func PlainText(doc *Document) string {
	if doc == nil || doc.Root == nil {
		return ""
	}
	var sb strings.Builder
	collectText(doc.Root, &sb)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// ExtractText returns an excerpt of at most limit characters (runes),
// cut at the last whitespace at or before limit and suffixed with
// Ellipsis. Text that fits is returned without ellipsis. A limit of zero
// or less yields "".
func ExtractText(doc *Document, limit int) string {
	if limit <= 0 {
		return ""
	}
	return Truncate(PlainText(doc), limit)
}

// Truncate shortens already collapsed text to limit runes on a word
// boundary, appending Ellipsis when anything was cut.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	cut := -1
	for i := limit; i > 0; i-- {
		if unicode.IsSpace(runes[i]) {
			cut = i
			break
		}
	}
	if cut < 0 {
		cut = limit
	}
	return strings.TrimRightFunc(string(runes[:cut]), unicode.IsSpace) + Ellipsis
}

func collectText(n Node, sb *strings.Builder) {
	switch v := n.(type) {
	case *Text:
		sb.WriteString(v.Text)
		return
	case *LineBreak:
		sb.WriteByte(' ')
		return
	}
	for _, c := range Children(n) {
		block := isBlock(c)
		if block {
			sb.WriteByte(' ')
		}
		collectText(c, sb)
		if block {
			sb.WriteByte(' ')
		}
	}
}
