// Package richtext implements the rich-document model used for news bodies,
// instructor biographies, event and grade descriptions: a rooted, ordered
// tree of typed nodes stored as JSON by the CMS.
//
// The package normalizes partially specified trees before persistence,
// reduces trees to plain-text excerpts and renders them to HTML as templ
// components. All operations are pure and safe for concurrent use.
package richtext

import "github.com/shisei-sport/clubsite/media"

// Kind is the value of a node's "type" field.
type Kind string

// Node kinds understood by the normalizer and the renderer.
const (
	KindRoot      Kind = "root"
	KindParagraph Kind = "paragraph"
	KindHeading   Kind = "heading"
	KindQuote     Kind = "quote"
	KindText      Kind = "text"
	KindList      Kind = "list"
	KindListItem  Kind = "listitem"
	KindLink      Kind = "link"
	KindUpload    Kind = "upload"
	KindLineBreak Kind = "linebreak"
)

// Known reports whether k is one of the recognized node kinds.
func (k Kind) Known() bool {
	switch k {
	case KindRoot, KindParagraph, KindHeading, KindQuote, KindText,
		KindList, KindListItem, KindLink, KindUpload, KindLineBreak:
		return true
	}
	return false
}

// Format is the bit-flag set carried by text nodes. Bits without a named
// flag are preserved but not rendered.
type Format uint32

const (
	FormatBold      Format = 1 << 0
	FormatItalic    Format = 1 << 1
	FormatUnderline Format = 1 << 3
)

// Has reports whether all bits of flag are set.
func (f Format) Has(flag Format) bool {
	return f&flag == flag
}

// ListType selects ordered or unordered rendering of a list.
type ListType string

const (
	ListBullet ListType = "bullet"
	ListNumber ListType = "number"
)

// Upload relation targets.
const (
	RelationMedia  = "media"
	RelationVideos = "videos"
)

// Node is one element of a document tree. The set of implementations is
// closed; kinds this package does not know decode to *Unknown.
type Node interface {
	Kind() Kind
	node()
}

// Block holds the layout attributes shared by block containers.
type Block struct {
	Direction string
	Format    string // alignment token: "", "left", "center", "right", "justify"
	Indent    int
}

// Root is the document wrapper node.
type Root struct {
	Block
	Children []Node
}

// Paragraph is a block of inline content.
type Paragraph struct {
	Block
	Children []Node
}

// Heading is a titled block; Tag selects the level ("h1".."h6").
type Heading struct {
	Block
	Tag      string
	Children []Node
}

// Quote is a block quotation.
type Quote struct {
	Block
	Children []Node
}

// Text is a leaf carrying a string payload and inline formatting.
type Text struct {
	Text   string
	Format Format
	Detail int
	Mode   string
	Style  string
}

// List is an ordered or unordered list of ListItem nodes.
type List struct {
	Block
	ListType ListType
	Tag      string
	Start    int
	Children []Node
}

// ListItem is a single list entry; Value is its ordinal position.
type ListItem struct {
	Block
	Value    int
	Children []Node
}

// Link is an inline hyperlink around its children.
type Link struct {
	URL      string
	NewTab   bool
	Children []Node
}

// Upload embeds an external reference: an image from the media
// collection or a video-embed record, selected by RelationTo.
type Upload struct {
	RelationTo string
	Media      media.Ref
	Video      *media.Video
	Caption    string
}

// LineBreak is a hard line break inside a block.
type LineBreak struct{}

// Unknown is a node whose type is not recognized. It renders nothing;
// its children are kept so text extraction can still reach them.
type Unknown struct {
	Type     string
	Children []Node
}

func (*Root) Kind() Kind      { return KindRoot }
func (*Paragraph) Kind() Kind { return KindParagraph }
func (*Heading) Kind() Kind   { return KindHeading }
func (*Quote) Kind() Kind     { return KindQuote }
func (*Text) Kind() Kind      { return KindText }
func (*List) Kind() Kind      { return KindList }
func (*ListItem) Kind() Kind  { return KindListItem }
func (*Link) Kind() Kind      { return KindLink }
func (*Upload) Kind() Kind    { return KindUpload }
func (*LineBreak) Kind() Kind { return KindLineBreak }
func (u *Unknown) Kind() Kind { return Kind(u.Type) }

func (*Root) node()      {}
func (*Paragraph) node() {}
func (*Heading) node()   {}
func (*Quote) node()     {}
func (*Text) node()      {}
func (*List) node()      {}
func (*ListItem) node()  {}
func (*Link) node()      {}
func (*Upload) node()    {}
func (*LineBreak) node() {}
func (*Unknown) node()   {}

// Children returns the ordered children of n, or nil for leaves.
func Children(n Node) []Node {
	switch v := n.(type) {
	case *Root:
		return v.Children
	case *Paragraph:
		return v.Children
	case *Heading:
		return v.Children
	case *Quote:
		return v.Children
	case *List:
		return v.Children
	case *ListItem:
		return v.Children
	case *Link:
		return v.Children
	case *Unknown:
		return v.Children
	}
	return nil
}

// isBlock reports whether n starts a new block in the flow of text.
func isBlock(n Node) bool {
	switch n.(type) {
	case *Root, *Paragraph, *Heading, *Quote, *List, *ListItem, *Upload, *Unknown:
		return true
	}
	return false
}
