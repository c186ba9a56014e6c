package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"

	rt "github.com/shisei-sport/clubsite/richtext"
)

func render(md string) string {
	return rt.RenderHTML(Document(md))
}

func TestInlineBold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**vet**", "<p><strong>vet</strong></p>"},
		{"__vet__", "<p><strong>vet</strong></p>"},
		{"tekst **vet** meer", "<p>tekst <strong>vet</strong> meer</p>"},
	}
	for _, tt := range tests {
		if got := render(tt.input); got != tt.expected {
			t.Errorf("render(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestInlineItalic(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"*schuin*", "<p><em>schuin</em></p>"},
		{"_schuin_", "<p><em>schuin</em></p>"},
		{"tekst *schuin* meer", "<p>tekst <em>schuin</em> meer</p>"},
	}
	for _, tt := range tests {
		if got := render(tt.input); got != tt.expected {
			t.Errorf("render(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestInlineNested(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**vet *schuin* tekst**", "<p><strong>vet </strong><strong><em>schuin</em></strong><strong> tekst</strong></p>"},
		{"`**geen opmaak**`", "<p>**geen opmaak**</p>"},
	}
	for _, tt := range tests {
		if got := render(tt.input); got != tt.expected {
			t.Errorf("render(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestInlineLinks(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[contact](/contact)", `<p><a href="/contact">contact</a></p>`},
		{"[JBN](https://jbn.nl)^", `<p><a href="https://jbn.nl" target="_blank" rel="noopener noreferrer">JBN</a></p>`},
		{"[kwaad](javascript:alert(1))", "<p>kwaad)</p>"},
		{"[**vet**](/x)", `<p><a href="/x"><strong>vet</strong></a></p>`},
	}
	for _, tt := range tests {
		if got := render(tt.input); got != tt.expected {
			t.Errorf("render(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBlocks(t *testing.T) {
	md := "# Titel\n\nEerste regel\ntweede regel\n\n### Klein\n\n---\n\n> citaat een\n> citaat twee\n"
	want := "<h1>Titel</h1><p>Eerste regel tweede regel</p><h3>Klein</h3><blockquote>citaat een<br/>citaat twee</blockquote>"
	if got := render(md); got != want {
		t.Errorf("render() = %q, want %q", got, want)
	}
}

func TestLists(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"- gi\n- band", "<ul><li>gi</li><li>band</li></ul>"},
		{"1. een\n2. twee", "<ol><li>een</li><li>twee</li></ol>"},
		{"3. drie\n4. vier", `<ol start="3"><li>drie</li><li>vier</li></ol>`},
		{"- a\n1. b", "<ul><li>a</li></ul><ol><li>b</li></ol>"},
		{"intro\n- punt", "<p>intro</p><ul><li>punt</li></ul>"},
	}
	for _, tt := range tests {
		if got := render(tt.input); got != tt.expected {
			t.Errorf("render(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestCodeFence(t *testing.T) {
	got := render("```\nregel 1\nregel <2>\n```")
	assert.Equal(t, "<p>regel 1<br/>regel &lt;2&gt;</p>", got)
}

func TestTableRows(t *testing.T) {
	got := render("| Band | Leeftijd |\n|---|---|\n| geel | 8 |")
	assert.Equal(t, "<p>Band | Leeftijd</p><p>geel | 8</p>", got)
}

func TestImages(t *testing.T) {
	got := render("![De dojo](/media/dojo.jpg){|800|600}")
	assert.Contains(t, got, `src="/media/dojo.jpg"`)
	assert.Contains(t, got, `alt="De dojo"`)
	assert.Contains(t, got, `width="800"`)

	assert.Equal(t, "", render("![kwaad](javascript:alert(1))"))
}

func TestTreeIsNormalizable(t *testing.T) {
	tree := Tree("Hallo **wereld**")
	n := rt.Normalize(tree)
	assert.Equal(t, n, rt.Normalize(n))
	assert.Equal(t, "Hallo wereld", rt.PlainText(rt.FromValue(n)))
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/pad", "/pad"},
		{"#anker", "#anker"},
		{"https://a.nl", "https://a.nl"},
		{"mailto:info@shisei.nl", "mailto:info@shisei.nl"},
		{"javascript:alert(1)", ""},
		{"relatief", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.expected {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
