// Package markdown converts the small Markdown dialect used in seed files
// into rich-text trees.
//
// Supported: ATX headings, paragraphs, bullet and numbered lists, block
// quotes, fenced code, horizontal rules, standalone images with an optional
// {style|width|height} suffix, table rows, and the inline forms **bold**,
// __bold__, *italic*, _italic_, `code` and [label](url) with a trailing ^ for
// links that open in a new tab.
package markdown

import (
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	rt "github.com/shisei-sport/clubsite/richtext"
)

var (
	reHeading     = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	reOrderedList = regexp.MustCompile(`^(\d+)\.\s`)
	reBulletList  = regexp.MustCompile(`^[-*]\s`)
	// ![alt](url) or ![alt](url){style} or ![alt](url){style|width|height}
	reImg = regexp.MustCompile(`^!\[(.*?)\]\((.*?)\)(?:\{([^|}]*?)(?:\|(\d+)\|(\d+))?\})?$`)

	reInline = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s]*)\)(\^)?` +
		`|\*\*(.+?)\*\*` +
		`|__(.+?)__` +
		`|\*([^*]+)\*` +
		`|_([^_]+)_` +
		"|`([^`]+)`")
)

// Tree converts md into a {"root": …} rich-text value. The result carries
// only essential fields; normalize it before persisting.
func Tree(md string) rt.Value {
	var b builder
	for _, raw := range strings.Split(md, "\n") {
		b.line(strings.TrimRight(raw, "\r"))
	}
	b.flushCode()
	b.flush()
	return rt.NewRoot(b.blocks...)
}

// Document converts md straight into a decoded document.
func Document(md string) *rt.Document {
	return rt.FromValue(rt.Normalize(Tree(md)))
}

type builder struct {
	blocks []rt.Value

	para    []string
	quote   []string
	items   []rt.Value
	ordered bool
	start   int

	inCode bool
	code   []string
}

func (b *builder) line(line string) {
	if strings.HasPrefix(line, "```") {
		if b.inCode {
			b.flushCode()
		} else {
			b.flush()
			b.inCode = true
		}
		return
	}
	if b.inCode {
		b.code = append(b.code, line)
		return
	}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		b.flush()
		return
	}

	switch {
	case strings.HasPrefix(trimmed, "---") && strings.Trim(trimmed, "-") == "":
		b.flush()
		b.blocks = append(b.blocks, rt.Value{"type": "horizontalrule"})
	case reHeading.MatchString(trimmed):
		b.flush()
		m := reHeading.FindStringSubmatch(trimmed)
		b.blocks = append(b.blocks, rt.H("h"+strconv.Itoa(len(m[1])), Inline(strings.TrimSpace(m[2]))...))
	case reImg.MatchString(trimmed):
		b.flush()
		if img, ok := image(reImg.FindStringSubmatch(trimmed)); ok {
			b.blocks = append(b.blocks, img)
		}
	case strings.HasPrefix(trimmed, "|"):
		b.flush()
		if !isTableSeparator(trimmed) {
			b.blocks = append(b.blocks, rt.P(Inline(strings.Join(parseTableCells(trimmed), " | "))...))
		}
	case reBulletList.MatchString(trimmed):
		b.startList(false, 1)
		b.items = append(b.items, rt.LI(Inline(strings.TrimSpace(trimmed[2:]))...))
	case reOrderedList.MatchString(trimmed):
		m := reOrderedList.FindStringSubmatch(trimmed)
		n, _ := strconv.Atoi(m[1])
		b.startList(true, n)
		b.items = append(b.items, rt.LI(Inline(strings.TrimSpace(trimmed[len(m[0]):]))...))
	case strings.HasPrefix(trimmed, ">"):
		if b.quote == nil {
			b.flush()
		}
		b.quote = append(b.quote, strings.TrimSpace(strings.TrimPrefix(trimmed, ">")))
	default:
		if b.para == nil {
			b.flush()
		}
		b.para = append(b.para, trimmed)
	}
}

func (b *builder) startList(ordered bool, start int) {
	if b.items != nil && b.ordered == ordered {
		return
	}
	b.flush()
	b.items = []rt.Value{}
	b.ordered = ordered
	b.start = start
}

// flush closes the open paragraph, list or quote.
func (b *builder) flush() {
	switch {
	case b.para != nil:
		b.blocks = append(b.blocks, rt.P(Inline(strings.Join(b.para, " "))...))
	case b.quote != nil:
		var children []rt.Value
		for i, l := range b.quote {
			if i > 0 {
				children = append(children, rt.BR())
			}
			children = append(children, Inline(l)...)
		}
		b.blocks = append(b.blocks, rt.Q(children...))
	case b.items != nil:
		if b.ordered {
			l := rt.OL(b.items...)
			if b.start > 1 {
				l["start"] = b.start
				for i, it := range b.items {
					it["value"] = b.start + i
				}
			}
			b.blocks = append(b.blocks, l)
		} else {
			b.blocks = append(b.blocks, rt.UL(b.items...))
		}
	}
	b.para, b.quote, b.items = nil, nil, nil
}

func (b *builder) flushCode() {
	if !b.inCode {
		return
	}
	var children []rt.Value
	for i, l := range b.code {
		if i > 0 {
			children = append(children, rt.BR())
		}
		if l != "" {
			children = append(children, rt.T(l))
		}
	}
	if len(children) > 0 {
		b.blocks = append(b.blocks, rt.P(children...))
	}
	b.inCode, b.code = false, nil
}

func image(m []string) (rt.Value, bool) {
	src := SafeURL(m[2])
	if src == "" {
		return nil, false
	}
	v := map[string]any{"url": src, "alt": m[1]}
	if m[4] != "" && m[5] != "" {
		w, _ := strconv.Atoi(m[4])
		h, _ := strconv.Atoi(m[5])
		v["width"], v["height"] = w, h
	}
	return rt.Image(v, ""), true
}

// Inline converts inline Markdown into text and link nodes.
func Inline(s string) []rt.Value {
	return inline(s, 0)
}

func inline(s string, f rt.Format) []rt.Value {
	var out []rt.Value
	for s != "" {
		m := reInline.FindStringSubmatchIndex(s)
		if m == nil {
			out = appendText(out, s, f)
			break
		}
		out = appendText(out, s[:m[0]], f)
		group := func(i int) (string, bool) {
			if m[2*i] < 0 {
				return "", false
			}
			return s[m[2*i]:m[2*i+1]], true
		}
		if label, ok := group(1); ok {
			target, _ := group(2)
			_, newTab := group(3)
			if u := SafeURL(target); u != "" {
				out = append(out, rt.A(u, newTab, inline(label, f)...))
			} else {
				out = append(out, inline(label, f)...)
			}
		} else if inner, ok := group(4); ok {
			out = append(out, inline(inner, f|rt.FormatBold)...)
		} else if inner, ok := group(5); ok {
			out = append(out, inline(inner, f|rt.FormatBold)...)
		} else if inner, ok := group(6); ok {
			out = append(out, inline(inner, f|rt.FormatItalic)...)
		} else if inner, ok := group(7); ok {
			out = append(out, inline(inner, f|rt.FormatItalic)...)
		} else if code, ok := group(8); ok {
			out = appendText(out, code, f)
		}
		s = s[m[1]:]
	}
	return out
}

func appendText(out []rt.Value, s string, f rt.Format) []rt.Value {
	if s == "" {
		return out
	}
	return append(out, rt.T(s, f))
}

func parseTableCells(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.Trim(line, "|")
	parts := strings.Split(line, "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func isTableSeparator(line string) bool {
	line = strings.TrimSpace(line)
	line = strings.Trim(line, "|")
	for _, cell := range strings.Split(line, "|") {
		cell = strings.TrimSpace(cell)
		cleaned := strings.ReplaceAll(strings.ReplaceAll(cell, "-", ""), ":", "")
		if cleaned != "" {
			return false
		}
	}
	return true
}

// SafeURL returns raw when it is a relative URL or uses an allowed scheme,
// and "" otherwise.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return val
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return val
	default:
		return ""
	}
}
