package bbcode

import (
	"fmt"
	"strings"
)

// UnknownTags selects what happens to opening tags the schema doesn't allow.
type UnknownTags int

const (
	KeepText UnknownTags = iota // render the tag as its own source text
	DropTags                    // remove the tag, keep its content
)

// Issue is a kind of malformed markup the builder recovered from.
type Issue int

const (
	UnknownTag Issue = iota
	UnknownLeaf
	UnexpectedParameter
	MisplacedItem
	DuplicateTag
	OrphanCloser
	ImplicitClose
)

func (i Issue) String() string {
	switch i {
	case UnknownTag:
		return "unknown tag"
	case UnknownLeaf:
		return "unknown leaf tag"
	case UnexpectedParameter:
		return "unexpected parameter"
	case MisplacedItem:
		return "list item outside of its list"
	case DuplicateTag:
		return "tag is already open"
	case OrphanCloser:
		return "closing tag without opening tag"
	case ImplicitClose:
		return "tag is never closed"
	}
	return "?"
}

// Warning describes a recovery from malformed markup.
type Warning struct {
	Pos   int    // byte offset in the input
	Raw   string // source text of the tag
	Issue Issue
}

func (w Warning) String() string {
	return fmt.Sprintf("%d: %s %s", w.Pos, w.Raw, w.Issue)
}

// frame is an open tag during tree building
type frame struct {
	name     string
	raw      string
	pos      int
	spec     TagSpec
	param    string
	hasParam bool
	children []Node
}

func (f *frame) element() *Element {
	return &Element{
		Name:     f.name,
		Param:    f.param,
		HasParam: f.hasParam,
		Spec:     f.spec,
		Children: f.children,
	}
}

type builder struct {
	schema     *Schema
	scanner    *Scanner
	unknown    UnknownTags
	containers map[string]string // list containers -> their item tag
	stack      []*frame
	warnings   []Warning
}

func newBuilder(schema *Schema, input string, unknown UnknownTags) *builder {
	containers := map[string]string{}
	for _, name := range schema.Names() {
		spec, _ := schema.Lookup(name)
		if _, ok := containers[spec.Container]; !ok && spec.Category == ListItem {
			containers[spec.Container] = name
		}
	}
	return &builder{
		schema:     schema,
		scanner:    NewScanner(input),
		unknown:    unknown,
		containers: containers,
	}
}

// Build parses input into a document tree.
func Build(input string, schema *Schema, unknown UnknownTags) ([]Node, []Warning) {
	b := newBuilder(schema, input, unknown)
	nodes := b.build()
	return nodes, b.warnings
}

func (b *builder) build() []Node {
	b.stack = []*frame{{}}
	for {
		tok, ok := b.scanner.Next()
		if !ok {
			break
		}
		switch tok.Type {
		case TokenText:
			b.appendNode(&Text{Value: tok.Raw})
		case TokenOpen:
			b.open(tok)
		case TokenClose:
			b.close(tok)
		case TokenLeaf:
			b.leaf(tok)
		}
	}

	// implicit close at the end of input
	b.unwind(1)
	if len(b.stack) != 1 {
		panic(fmt.Sprintf("bbcode: %d open tags after the end of input", len(b.stack)-1))
	}
	root := b.stack[0]
	b.stack = nil

	return b.prune(root.children)
}

func (b *builder) top() *frame {
	return b.stack[len(b.stack)-1]
}

func (b *builder) appendNode(n Node) {
	top := b.top()
	top.children = append(top.children, n)
}

func (b *builder) warn(pos int, raw string, issue Issue) {
	b.warnings = append(b.warnings, Warning{Pos: pos, Raw: raw, Issue: issue})
}

// find returns the stack index of the topmost frame named name, or -1.
// The root frame is never matched.
func (b *builder) find(name string) int {
	for i := len(b.stack) - 1; i > 0; i-- {
		if b.stack[i].name == name {
			return i
		}
	}
	return -1
}

// pop finalizes the top frame into an element of the frame below it
func (b *builder) pop() {
	f := b.top()
	b.stack = b.stack[:len(b.stack)-1]
	b.appendNode(f.element())
}

// unwind pops frames until the stack has depth frames. Frames other than
// list items are reported as implicitly closed.
func (b *builder) unwind(depth int) {
	for len(b.stack) > depth {
		if f := b.top(); f.spec.Category != ListItem {
			b.warn(f.pos, f.raw, ImplicitClose)
		}
		b.pop()
	}
}

func (b *builder) unrecognized(tok Token, issue Issue) {
	b.warn(tok.Pos, tok.Raw, issue)
	if b.unknown == KeepText {
		b.appendNode(&Text{Value: tok.Raw})
	}
}

func (b *builder) open(tok Token) {
	name := normalizeName(tok.Name)
	spec, ok := b.schema.Lookup(name)
	switch {
	case !ok || spec.Category == Leaf:
		b.unrecognized(tok, UnknownTag)
		return
	case tok.HasParam && !spec.TakesParameter:
		b.unrecognized(tok, UnexpectedParameter)
		return
	}

	if spec.Category == ListItem {
		container := b.find(spec.Container)
		if container < 0 {
			b.unrecognized(tok, MisplacedItem)
			return
		}
		// a new item closes the previous one
		b.unwind(container + 1)
	} else if b.find(name) >= 0 {
		b.warn(tok.Pos, tok.Raw, DuplicateTag)
		return
	}

	b.stack = append(b.stack, &frame{
		name:     name,
		raw:      tok.Raw,
		pos:      tok.Pos,
		spec:     spec,
		param:    tok.Param,
		hasParam: tok.HasParam,
	})
	if spec.Category == Literal {
		b.scanner.EnterLiteral(tok.Name)
	}
}

func (b *builder) close(tok Token) {
	depth := b.find(normalizeName(tok.Name))
	if depth < 0 {
		b.warn(tok.Pos, tok.Raw, OrphanCloser)
		return
	}
	b.unwind(depth + 1)
	b.pop()
}

func (b *builder) leaf(tok Token) {
	name := normalizeName(tok.Name)
	if spec, ok := b.schema.Lookup(name); ok && spec.Category == Leaf {
		b.appendNode(&LeafTag{Name: name})
		return
	}
	b.warn(tok.Pos, tok.Raw, UnknownLeaf)
	b.appendNode(&Text{Value: tok.Raw})
}

// prune removes elements without content. Content of list containers
// outside of their items is moved into items and list items are trimmed.
func (b *builder) prune(nodes []Node) []Node {
	out := nodes[:0]
	for _, n := range nodes {
		switch n := n.(type) {
		case *Text:
			if n.Value == "" {
				continue
			}
		case *Element:
			n.Children = b.prune(n.Children)
			if item, ok := b.containers[n.Name]; ok {
				n.Children = b.adoptStrays(n.Children, item)
			}
			if n.Spec.Category == ListItem {
				n.Children = trimNodes(n.Children)
			}
			if isEmpty(n) {
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

func isEmpty(el *Element) bool {
	if el.Spec.Category == Media && el.HasParam {
		return false
	}
	for _, n := range el.Children {
		if t, ok := n.(*Text); ok && t.Value == "" {
			continue
		}
		return false
	}
	return true
}

// adoptStrays returns the items of a list container. Content after an item
// joins that item, content before the first item becomes an item of its
// own. Whitespace before the first item is dropped.
func (b *builder) adoptStrays(nodes []Node, item string) []Node {
	spec, _ := b.schema.Lookup(item)
	var (
		items []Node
		last  *Element
	)
	for _, n := range nodes {
		if el, ok := n.(*Element); ok && el.Spec.Category == ListItem {
			last = el
			items = append(items, el)
			continue
		}
		if last == nil {
			if t, ok := n.(*Text); ok && strings.TrimSpace(t.Value) == "" {
				continue
			}
			last = &Element{Name: item, Spec: spec}
			items = append(items, last)
		}
		last.Children = append(last.Children, n)
	}
	for _, n := range items {
		el := n.(*Element)
		el.Children = trimNodes(el.Children)
	}
	return items
}

// trimNodes strips leading whitespace of the first text node and trailing
// whitespace of the last one. Trimmed text nodes are replaced, not modified.
func trimNodes(nodes []Node) []Node {
	out := append([]Node(nil), nodes...)
	for len(out) > 0 {
		t, ok := out[0].(*Text)
		if !ok {
			break
		}
		if v := strings.TrimLeft(t.Value, " \t\n"); v != "" {
			out[0] = &Text{Value: v}
			break
		}
		out = out[1:]
	}
	for len(out) > 0 {
		t, ok := out[len(out)-1].(*Text)
		if !ok {
			break
		}
		if v := strings.TrimRight(t.Value, " \t\n"); v != "" {
			out[len(out)-1] = &Text{Value: v}
			break
		}
		out = out[:len(out)-1]
	}
	return out
}
