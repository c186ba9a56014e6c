package richtext

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/shisei-sport/clubsite/media"
)

type renderer struct {
	resolver  *media.Resolver
	imageSize string
}

// RenderOption configures Render.
type RenderOption func(*renderer)

// WithResolver sets the resolver used for embedded images.
func WithResolver(r *media.Resolver) RenderOption {
	return func(rd *renderer) {
		if r != nil {
			rd.resolver = r
		}
	}
}

// WithImageSize selects the size variant used for embedded images
// (default media.SizeThumbnail).
func WithImageSize(size string) RenderOption {
	return func(rd *renderer) {
		rd.imageSize = size
	}
}

func newRenderer(opts []RenderOption) *renderer {
	rd := &renderer{resolver: media.DefaultResolver, imageSize: media.SizeThumbnail}
	for _, opt := range opts {
		opt(rd)
	}
	return rd
}

// Render returns a templ.Component that writes doc as HTML.
func Render(doc *Document, opts ...RenderOption) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, RenderHTML(doc, opts...))
		return err
	})
}

// RenderHTML renders doc to an HTML string. Unknown nodes produce no output.
func RenderHTML(doc *Document, opts ...RenderOption) string {
	if doc == nil || doc.Root == nil {
		return ""
	}
	rd := newRenderer(opts)
	var sb strings.Builder
	rd.children(&sb, doc.Root.Children)
	return sb.String()
}

func (rd *renderer) children(sb *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		rd.node(sb, n)
	}
}

func (rd *renderer) node(sb *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Root:
		rd.children(sb, v.Children)
	case *Paragraph:
		rd.block(sb, "p", v.Block, v.Children)
	case *Heading:
		rd.block(sb, headingTag(v.Tag), v.Block, v.Children)
	case *Quote:
		rd.block(sb, "blockquote", v.Block, v.Children)
	case *Text:
		writeText(sb, v)
	case *List:
		rd.list(sb, v)
	case *ListItem:
		sb.WriteString("<li>")
		rd.children(sb, v.Children)
		sb.WriteString("</li>")
	case *Link:
		rd.link(sb, v)
	case *Upload:
		rd.upload(sb, v)
	case *LineBreak:
		sb.WriteString("<br/>")
	case *Unknown:
		// forward-compatible node types render nothing
	}
}

func (rd *renderer) block(sb *strings.Builder, tag string, b Block, children []Node) {
	sb.WriteString("<" + tag)
	if align := alignment(b.Format); align != "" {
		sb.WriteString(` style="text-align:` + align + `"`)
	}
	sb.WriteString(">")
	rd.children(sb, children)
	sb.WriteString("</" + tag + ">")
}

// writeText wraps the escaped payload as <strong><em><u>…</u></em></strong>.
func writeText(sb *strings.Builder, t *Text) {
	bold := t.Format.Has(FormatBold)
	italic := t.Format.Has(FormatItalic)
	underline := t.Format.Has(FormatUnderline)
	if bold {
		sb.WriteString("<strong>")
	}
	if italic {
		sb.WriteString("<em>")
	}
	if underline {
		sb.WriteString("<u>")
	}
	sb.WriteString(templ.EscapeString(t.Text))
	if underline {
		sb.WriteString("</u>")
	}
	if italic {
		sb.WriteString("</em>")
	}
	if bold {
		sb.WriteString("</strong>")
	}
}

func (rd *renderer) list(sb *strings.Builder, l *List) {
	tag := "ul"
	if l.ListType == ListNumber {
		tag = "ol"
	}
	sb.WriteString("<" + tag)
	if tag == "ol" && l.Start > 1 {
		sb.WriteString(` start="` + strconv.Itoa(l.Start) + `"`)
	}
	sb.WriteString(">")
	rd.children(sb, l.Children)
	sb.WriteString("</" + tag + ">")
}

func (rd *renderer) link(sb *strings.Builder, l *Link) {
	href := strings.TrimSpace(l.URL)
	if href == "" {
		rd.children(sb, l.Children)
		return
	}
	sb.WriteString(`<a href="` + templ.EscapeString(string(templ.URL(href))) + `"`)
	if l.NewTab {
		sb.WriteString(` target="_blank" rel="noopener noreferrer"`)
	}
	sb.WriteString(">")
	rd.children(sb, l.Children)
	sb.WriteString("</a>")
}

func (rd *renderer) upload(sb *strings.Builder, u *Upload) {
	switch u.RelationTo {
	case RelationVideos:
		rd.video(sb, u.Video)
	default:
		rd.image(sb, u)
	}
}

func (rd *renderer) image(sb *strings.Builder, u *Upload) {
	src := rd.resolver.Resolve(u.Media, rd.imageSize)
	if src == "" {
		return
	}
	sb.WriteString(`<figure class="rich-text-image"><img src="` + templ.EscapeString(src) + `"`)
	if m := u.Media.Media; m != nil {
		sb.WriteString(` alt="` + templ.EscapeString(m.Alt) + `"`)
		if s, ok := m.Sizes[rd.imageSize]; ok && s.URL != "" && s.Width > 0 && s.Height > 0 {
			sb.WriteString(` width="` + strconv.Itoa(s.Width) + `" height="` + strconv.Itoa(s.Height) + `"`)
		} else if m.Width > 0 && m.Height > 0 {
			sb.WriteString(` width="` + strconv.Itoa(m.Width) + `" height="` + strconv.Itoa(m.Height) + `"`)
		}
		if ph, ok := m.Sizes[media.SizePlaceholder]; ok && ph.URL != "" {
			sb.WriteString(` data-placeholder="` + templ.EscapeString(rd.resolver.Rewrite(ph.URL)) + `"`)
		}
	} else {
		sb.WriteString(` alt=""`)
	}
	sb.WriteString(` loading="lazy" decoding="async"/>`)
	if caption := strings.TrimSpace(u.Caption); caption != "" {
		sb.WriteString("<figcaption>" + templ.EscapeString(caption) + "</figcaption>")
	}
	sb.WriteString("</figure>")
}

func (rd *renderer) video(sb *strings.Builder, v *media.Video) {
	if v == nil || strings.TrimSpace(v.URL) == "" {
		return
	}
	src := media.EmbedURL(strings.TrimSpace(v.URL))
	sb.WriteString(`<div class="video-embed"><div style="position:relative;padding-bottom:56.25%;height:0;overflow:hidden">`)
	sb.WriteString(`<iframe src="` + templ.EscapeString(string(templ.URL(src))) + `"`)
	sb.WriteString(` title="` + templ.EscapeString(v.Title) + `"`)
	sb.WriteString(` style="position:absolute;top:0;left:0;width:100%;height:100%;border:0"`)
	sb.WriteString(` allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture" allowfullscreen loading="lazy"></iframe></div>`)
	if d := strings.TrimSpace(v.Description); d != "" {
		sb.WriteString(`<p class="video-description">` + templ.EscapeString(d) + "</p>")
	}
	sb.WriteString("</div>")
}

func headingTag(tag string) string {
	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return tag
	}
	return "h2"
}

func alignment(format string) string {
	switch format {
	case "center", "right", "justify":
		return format
	}
	return ""
}
