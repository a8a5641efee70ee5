package bbcode

import "strings"

// Node is an element of the document tree: *Text, *Element, *LeafTag or
// *LineBreak.
type Node interface {
	node()
}

// Text is a run of literal text. Value is not escaped.
type Text struct {
	Value string
}

// Element is a recognized tag with its content.
type Element struct {
	Name     string // normalized tag name
	Param    string
	HasParam bool
	Spec     TagSpec // schema entry at the time of parsing
	Children []Node
}

// LeafTag is a self-closing [:name] tag
type LeafTag struct {
	Name string
}

// LineBreak is a single line break inside a paragraph or a block.
type LineBreak struct{}

func (*Text) node()      {}
func (*Element) node()   {}
func (*LeafTag) node()   {}
func (*LineBreak) node() {}

// TextContent returns the concatenated text of nodes and their descendants.
func TextContent(nodes []Node) string {
	var sb strings.Builder
	writeText(&sb, nodes)
	return sb.String()
}

func writeText(sb *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *Text:
			sb.WriteString(n.Value)
		case *Element:
			writeText(sb, n.Children)
		case *LineBreak:
			sb.WriteByte('\n')
		}
	}
}

// Section is a unit produced by the segmenter: *Paragraph or *Passthrough.
type Section interface {
	section()
}

// Paragraph groups inline content between block boundaries.
type Paragraph struct {
	Children []Node
}

// Passthrough is a block-category element rendered without a paragraph.
type Passthrough struct {
	Element *Element
}

func (*Paragraph) section()   {}
func (*Passthrough) section() {}
