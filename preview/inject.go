package preview

import (
	"regexp"
	"strings"
)

var (
	reTitle       = regexp.MustCompile(`(?is)<title[^>]*>.*?</title>`)
	reMeta        = regexp.MustCompile(`(?is)<meta\b[^>]*>`)
	reMetaKey     = regexp.MustCompile(`(?is)\b(?:property|name)\s*=\s*(?:"([^"]*)"|'([^']*)')`)
	reMetaContent = regexp.MustCompile(`(?is)(\bcontent\s*=\s*)(?:"[^"]*"|'[^']*')`)
)

// Inject returns a copy of tpl with the title element and the preview meta
// tags set from m. Tags absent from tpl are not added; empty values leave the
// matching tags untouched.
func Inject(tpl []byte, m Meta) []byte {
	values := map[string]string{
		"og:title":            m.Title,
		"og:description":      m.Description,
		"og:image":            m.Image,
		"og:url":              m.URL,
		"og:type":             m.Type,
		"twitter:title":       m.Title,
		"twitter:description": m.Description,
		"twitter:image":       m.Image,
		"description":         m.Description,
	}

	out := tpl
	if m.Title != "" {
		title := []byte("<title>" + EscapeAttr(m.Title) + "</title>")
		replaced := false
		out = reTitle.ReplaceAllFunc(out, func(b []byte) []byte {
			if replaced {
				return b
			}
			replaced = true
			return title
		})
	}
	return reMeta.ReplaceAllFunc(out, func(tag []byte) []byte {
		km := reMetaKey.FindSubmatch(tag)
		if km == nil {
			return tag
		}
		key := string(km[1]) + string(km[2])
		v, ok := values[strings.ToLower(key)]
		if !ok || v == "" {
			return tag
		}
		loc := reMetaContent.FindSubmatchIndex(tag)
		if loc == nil {
			return tag
		}
		var b []byte
		b = append(b, tag[:loc[3]]...)
		b = append(b, '"')
		b = append(b, EscapeAttr(v)...)
		b = append(b, '"')
		b = append(b, tag[loc[1]:]...)
		return b
	})
}

// EscapeAttr escapes s for a double-quoted attribute value. The ampersand is
// replaced first so later entities are not double-escaped.
func EscapeAttr(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
