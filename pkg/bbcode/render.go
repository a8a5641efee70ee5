package bbcode

import (
	"errors"
	"fmt"
	"strings"
)

// Renderer turns segmented blocks into markup. A renderer supports a tag
// category by implementing the matching interface below (InlineRenderer,
// LinkRenderer, ...). Text passed as children is already rendered markup.
type Renderer interface {
	RenderParagraph(children string) string
	RenderLineBreak() string
}

type InlineRenderer interface {
	RenderInline(tag, children string) string
}

// LinkRenderer renders links. href is the tag parameter, or the text of
// the link content if there is no parameter. It is not escaped.
type LinkRenderer interface {
	RenderLink(href, children string) string
}

// MediaRenderer renders media tags. src is the tag parameter or the text of
// the content, and is not escaped.
type MediaRenderer interface {
	RenderMedia(tag, src string) string
}

type BlockRenderer interface {
	RenderBlock(tag, children string) string
}

type ListItemRenderer interface {
	RenderListItem(tag, children string) string
}

type LeafRenderer interface {
	RenderLeaf(tag string) string
}

// LiteralRenderer renders literal tags. text is escaped content with tags
// left uninterpreted.
type LiteralRenderer interface {
	RenderLiteral(tag, text string) string
}

// ErrMissingRenderer is wrapped by ConfigError.
var ErrMissingRenderer = errors.New("renderer does not support tag category")

// ConfigError is returned when the renderer can't render a category used by
// the schema.
type ConfigError struct {
	Category Category
	Renderer Renderer
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s %q (renderer %T)", ErrMissingRenderer, e.Category, e.Renderer)
}

func (e *ConfigError) Unwrap() error {
	return ErrMissingRenderer
}

// dispatch holds the category renderers resolved from a Renderer
type dispatch struct {
	base     Renderer
	inline   InlineRenderer
	link     LinkRenderer
	media    MediaRenderer
	block    BlockRenderer
	listItem ListItemRenderer
	leaf     LeafRenderer
	literal  LiteralRenderer
}

// Check verifies that r can render every category used in schema.
func Check(schema *Schema, r Renderer) error {
	_, err := resolve(schema, r)
	return err
}

func resolve(schema *Schema, r Renderer) (*dispatch, error) {
	d := &dispatch{base: r}
	d.inline, _ = r.(InlineRenderer)
	d.link, _ = r.(LinkRenderer)
	d.media, _ = r.(MediaRenderer)
	d.block, _ = r.(BlockRenderer)
	d.listItem, _ = r.(ListItemRenderer)
	d.leaf, _ = r.(LeafRenderer)
	d.literal, _ = r.(LiteralRenderer)

	for _, c := range schema.Categories() {
		if !d.supports(c) {
			return nil, &ConfigError{Category: c, Renderer: r}
		}
	}
	return d, nil
}

func (d *dispatch) supports(c Category) bool {
	switch c {
	case Inline:
		return d.inline != nil
	case Link:
		return d.link != nil
	case Media:
		return d.media != nil
	case Block:
		return d.block != nil
	case ListItem:
		return d.listItem != nil
	case Leaf:
		return d.leaf != nil
	case Literal:
		return d.literal != nil
	}
	return false
}

func (d *dispatch) render(sections []Section) string {
	var sb strings.Builder
	for _, s := range sections {
		switch s := s.(type) {
		case *Paragraph:
			sb.WriteString(d.base.RenderParagraph(d.nodes(s.Children)))
		case *Passthrough:
			sb.WriteString(d.node(s.Element))
		}
	}
	return sb.String()
}

func (d *dispatch) nodes(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(d.node(n))
	}
	return sb.String()
}

func (d *dispatch) node(n Node) string {
	switch n := n.(type) {
	case *Text:
		return Escape(n.Value)
	case *LineBreak:
		return d.base.RenderLineBreak()
	case *LeafTag:
		return d.leaf.RenderLeaf(n.Name)
	case *Element:
		return d.element(n)
	}
	return ""
}

func (d *dispatch) element(el *Element) string {
	switch el.Spec.Category {
	case Inline:
		return d.inline.RenderInline(el.Name, d.nodes(el.Children))
	case Link:
		return d.link.RenderLink(el.source(), d.nodes(el.Children))
	case Media:
		return d.media.RenderMedia(el.Name, el.source())
	case Block:
		return d.block.RenderBlock(el.Name, d.nodes(el.Children))
	case ListItem:
		return d.listItem.RenderListItem(el.Name, d.nodes(el.Children))
	case Literal:
		return d.literal.RenderLiteral(el.Name, Escape(TextContent(el.Children)))
	}
	return d.nodes(el.Children)
}

// source is the parameter of a link or media element, or its text.
func (el *Element) source() string {
	if el.HasParam {
		return el.Param
	}
	return TextContent(el.Children)
}
