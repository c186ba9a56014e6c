package preview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeAttr(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Judo & jiu-jitsu", "Judo &amp; jiu-jitsu"},
		{`"Sensei" <Jan>`, "&quot;Sensei&quot; &lt;Jan&gt;"},
		{"&lt;", "&amp;lt;"},
		{"gewoon", "gewoon"},
	}
	for _, tt := range tests {
		if got := EscapeAttr(tt.in); got != tt.want {
			t.Errorf("EscapeAttr(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInjectEscapesMarkup(t *testing.T) {
	out := string(Inject([]byte(shell), Meta{
		Title:       `"><script>alert(1)</script>`,
		Description: "a < b & c",
		Type:        "article",
	}))
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, `<meta property="og:title" content="&quot;&gt;&lt;script&gt;alert(1)&lt;/script&gt;">`)
	assert.Contains(t, out, `<meta property="og:description" content="a &lt; b &amp; c">`)
	assert.Contains(t, out, `<meta property="og:type" content="article">`)
}

func TestInjectTitleOnce(t *testing.T) {
	tpl := "<head><title>A</title></head><body><svg><title>icoon</title></svg></body>"
	out := string(Inject([]byte(tpl), Meta{Title: "B"}))
	assert.Equal(t, "<head><title>B</title></head><body><svg><title>icoon</title></svg></body>", out)
}

func TestInjectAttributeOrderAndQuotes(t *testing.T) {
	tpl := `<meta content='oud' property='og:url'><meta property="og:image"/>`
	out := string(Inject([]byte(tpl), Meta{URL: "https://shisei.nl/news/1", Image: "https://shisei.nl/media/a.jpg"}))
	assert.Contains(t, out, `<meta content="https://shisei.nl/news/1" property='og:url'>`)
	// tags without a content attribute are left alone
	assert.Contains(t, out, `<meta property="og:image"/>`)
}

func TestInjectLeavesOtherTags(t *testing.T) {
	out := string(Inject([]byte(shell), Meta{Title: "X", Description: "Y"}))
	assert.Contains(t, out, `<meta charset="utf-8">`)
	assert.Contains(t, out, `<meta name="twitter:card" content="summary_large_image">`)
	assert.True(t, strings.Contains(out, `<meta content="X" name="twitter:title">`))
}
