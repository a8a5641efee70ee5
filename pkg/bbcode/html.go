package bbcode

import (
	"fmt"
	"strings"
)

// HTMLMaker is the default Renderer. It maps tag names to HTML elements,
// tags missing from the table use their own name as element name.
// Its methods only read the tables, so a maker can be shared by parallel
// parses as long as nobody calls SetElement or SetLeaf meanwhile.
type HTMLMaker struct {
	Elements map[string]string // tag name -> element name
	Leaves   map[string]string // leaf tag name -> markup
}

// NewHTMLMaker creates an HTML maker with the default element table.
func NewHTMLMaker() *HTMLMaker {
	return &HTMLMaker{
		Elements: map[string]string{
			"b":     "strong",
			"i":     "em",
			"u":     "u",
			"url":   "a",
			"img":   "img",
			"quote": "blockquote",
			"list":  "ul",
			"*":     "li",
			"code":  "code",
		},
		Leaves: map[string]string{},
	}
}

func (m *HTMLMaker) SetElement(tag, element string) {
	m.Elements[normalizeName(tag)] = element
}

// SetLeaf sets the markup a leaf tag is rendered to
func (m *HTMLMaker) SetLeaf(tag, markup string) {
	m.Leaves[normalizeName(tag)] = markup
}

func (m *HTMLMaker) element(tag string) string {
	if el, ok := m.Elements[tag]; ok {
		return el
	}
	return tag
}

func wrap(element, children string) string {
	return fmt.Sprintf("<%s>%s</%s>", element, children, element)
}

func (m *HTMLMaker) RenderParagraph(children string) string {
	return wrap("p", children)
}

func (m *HTMLMaker) RenderLineBreak() string {
	return "<br/>"
}

func (m *HTMLMaker) RenderInline(tag, children string) string {
	return wrap(m.element(tag), children)
}

func (m *HTMLMaker) RenderLink(href, children string) string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, EscapeAttr(href), children)
}

func (m *HTMLMaker) RenderMedia(tag, src string) string {
	return fmt.Sprintf(`<%s src="%s" alt=""/>`, m.element(tag), EscapeAttr(strings.TrimSpace(src)))
}

func (m *HTMLMaker) RenderBlock(tag, children string) string {
	return wrap(m.element(tag), children)
}

func (m *HTMLMaker) RenderListItem(tag, children string) string {
	return wrap(m.element(tag), children)
}

func (m *HTMLMaker) RenderLeaf(tag string) string {
	if markup, ok := m.Leaves[tag]; ok {
		return markup
	}
	return fmt.Sprintf("<%s />", m.element(tag))
}

func (m *HTMLMaker) RenderLiteral(tag, text string) string {
	return "<pre>" + wrap(m.element(tag), text) + "</pre>"
}
